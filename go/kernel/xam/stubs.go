package xam

import (
	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

// exportTable lists the known xam ordinals; implemented groups register
// first.
var exportTable = []struct {
	Ordinal uint32
	Name    string
}{
	{0x0003, "NetDll_WSAStartup"},
	{0x0004, "NetDll_WSACleanup"},
	{0x0005, "NetDll_socket"},
	{0x0006, "NetDll_closesocket"},
	{0x000B, "NetDll_bind"},
	{0x000C, "NetDll_connect"},
	{0x0012, "NetDll_recv"},
	{0x0016, "NetDll_send"},
	{0x0020, "XamEnumerate"},
	{0x0028, "XamNotifyCreateListener"},
	{0x0033, "NetDll_XNetStartup"},
	{0x0034, "NetDll_XNetCleanup"},
	{0x0049, "NetDll_XNetGetTitleXnAddr"},
	{0x0054, "NetDll_XNetGetEthernetLinkStatus"},
	{0x0190, "XamInputGetCapabilities"},
	{0x0191, "XamInputGetState"},
	{0x0192, "XamInputSetState"},
	{0x0193, "XGetAVPack"},
	{0x0194, "XGetGameRegion"},
	{0x0195, "XGetLanguage"},
	{0x0196, "XapipGetLocale"},
	{0x01A4, "XamLoaderLaunchTitle"},
	{0x01A6, "XamLoaderTerminateTitle"},
	{0x01CF, "XamGetExecutionId"},
	{0x01D0, "XamLoaderGetLaunchDataSize"},
	{0x01D1, "XamLoaderGetLaunchData"},
	{0x020A, "XamUserGetXUID"},
	{0x020C, "XamUserGetName"},
	{0x0210, "XamUserGetSigninState"},
	{0x0212, "XamUserGetSigninInfo"},
	{0x0214, "XamUserReadProfileSettings"},
	{0x0215, "XamUserWriteProfileSettings"},
	{0x0218, "XamUserCheckPrivilege"},
	{0x0254, "XamContentCreateEnumerator"},
	{0x0256, "XamContentGetDeviceState"},
	{0x0258, "XamContentCreate"},
	{0x025A, "XamContentClose"},
	{0x025C, "XamContentGetDeviceData"},
	{0x0290, "XNotifyGetNext"},
	{0x0291, "XNotifyPositionUI"},
	{0x0292, "XamNotifyCreateListenerInternal"},
	{0x0293, "XNotifyDelayUI"},
	{0x02B4, "XamShowSigninUI"},
	{0x02B6, "XamShowDirtyDiscErrorUI"},
	{0x02B8, "XamShowKeyboardUI"},
	{0x02BA, "XamShowDeviceSelectorUI"},
	{0x02C5, "XMsgInProcessCall"},
	{0x02C6, "XMsgSystemProcessCall"},
	{0x02C7, "XMsgStartIORequest"},
	{0x02C8, "XMsgCancelIORequest"},
	{0x02CA, "XamShowMessageBoxUI"},
	{0x02E1, "XGetVideoMode"},
	{0x02E2, "XGetVideoCapabilities"},
	{0x0A20, "XamAvatarInitialize"},
	{0x0A21, "XamAvatarShutdown"},
	{0x0A22, "XamAvatarGetManifestLocalUser"},
	{0x0A42, "XamNuiGetDeviceStatus"},
	{0x0A43, "XamNuiIsDeviceReady"},
	{0x0A44, "XamNuiHudGetInitializeFlags"},
	{0x0A45, "XamNuiCameraSetFlags"},
	{0x0AA0, "XamVoiceCreate"},
	{0x0AA1, "XamVoiceClose"},
	{0x0AA2, "XamVoiceIsActiveProcess"},
	{0x0AA3, "XamVoiceHeadsetPresent"},
	{0x0AA4, "XamVoiceSubmitPacket"},
}

func registerStubExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	exports := make([]*cpu.Export, len(exportTable))
	for i, e := range exportTable {
		exports[i] = cpu.Stub(e.Ordinal, e.Name)
	}
	register(r, exports...)
}
