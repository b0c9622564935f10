package xboxkrnl

import (
	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/kernel"
)

// exportTable lists the known xboxkrnl ordinals. Implemented exports are
// registered before it, so entries here only fill the gaps.
var exportTable = []struct {
	Ordinal uint32
	Name    string
}{
	{0x0001, "DbgBreakPoint"},
	{0x0002, "DbgBreakPointWithStatus"},
	{0x0003, "DbgPrint"},
	{0x0004, "DbgPrompt"},
	{0x0009, "ExAllocatePool"},
	{0x000A, "ExAllocatePoolWithTag"},
	{0x000B, "ExAllocatePoolTypeWithTag"},
	{0x000D, "ExCreateThread"},
	{0x000E, "ExFreePool"},
	{0x0010, "ExGetXConfigSetting"},
	{0x0011, "ExInitializeReadWriteLock"},
	{0x0017, "ExRegisterTitleTerminateNotification"},
	{0x0019, "ExSetXConfigSetting"},
	{0x001A, "ExTerminateThread"},
	{0x0029, "HalReturnToFirmware"},
	{0x0040, "IoCompleteRequest"},
	{0x0042, "IoCreateDevice"},
	{0x0059, "KeDebugMonitorData"},
	{0x005B, "KeAcquireSpinLockAtRaisedIrql"},
	{0x005F, "KeBugCheck"},
	{0x0060, "KeBugCheckEx"},
	{0x0066, "KeGetCurrentProcessType"},
	{0x0069, "KeInitializeDpc"},
	{0x006C, "KeInitializeSemaphore"},
	{0x0078, "KeQueryPerformanceFrequency"},
	{0x007A, "KeQuerySystemTime"},
	{0x007D, "KeResetEvent"},
	{0x0080, "KeReleaseSpinLockFromRaisedIrql"},
	{0x00A0, "KeDelayExecutionThread"},
	{0x00A7, "KePulseEvent"},
	{0x00AB, "KeSetEvent"},
	{0x00B1, "KeSetAffinityThread"},
	{0x00BB, "KeWaitForSingleObject"},
	{0x00BC, "KeWaitForMultipleObjects"},
	{0x00C0, "MmAllocatePhysicalMemoryEx"},
	{0x00C4, "MmFreePhysicalMemory"},
	{0x00C9, "NtClearEvent"},
	{0x00CC, "NtAllocateVirtualMemory"},
	{0x00CF, "NtClose"},
	{0x00D2, "NtCreateEvent"},
	{0x00D3, "NtCreateFile"},
	{0x00D5, "NtCreateMutant"},
	{0x00D6, "NtCreateSemaphore"},
	{0x00D8, "NtCreateTimer"},
	{0x00DA, "NtReadFile"},
	{0x00DC, "NtDuplicateObject"},
	{0x00DF, "NtFreeVirtualMemory"},
	{0x00E4, "NtPulseEvent"},
	{0x00E6, "NtQueryDirectoryFile"},
	{0x00E8, "NtQueryFullAttributesFile"},
	{0x00E9, "NtQueryInformationFile"},
	{0x00EB, "NtReleaseMutant"},
	{0x00EC, "NtReleaseSemaphore"},
	{0x00F1, "NtSetEvent"},
	{0x00F2, "NtSetInformationFile"},
	{0x00F8, "NtSuspendThread"},
	{0x00FA, "ObDereferenceObject"},
	{0x00FB, "NtWaitForSingleObjectEx"},
	{0x00FC, "NtWaitForMultipleObjectsEx"},
	{0x0104, "RtlNtStatusToDosError"},
	{0x0107, "ObReferenceObjectByHandle"},
	{0x0112, "NtWriteFile"},
	{0x0118, "RtlCompareMemoryUlong"},
	{0x011A, "RtlCompareMemory"},
	{0x0125, "RtlEnterCriticalSection"},
	{0x012C, "RtlInitAnsiString"},
	{0x012D, "RtlInitUnicodeString"},
	{0x012E, "RtlInitializeCriticalSection"},
	{0x0130, "RtlLeaveCriticalSection"},
	{0x0137, "RtlRaiseException"},
	{0x0156, "XboxHardwareInfo"},
	{0x0191, "XexCheckExecutablePrivilege"},
	{0x0195, "XexGetModuleHandle"},
	{0x0197, "XexGetProcedureAddress"},
	{0x01A4, "XexLoadImage"},
	{0x01A9, "XexUnloadImage"},
	{0x0259, "XeCryptSha"},
}

func registerStubExports(r *cpu.ExportResolver, k *kernel.KernelState) {
	exports := make([]*cpu.Export, len(exportTable))
	for i, e := range exportTable {
		exports[i] = cpu.Stub(e.Ordinal, e.Name)
	}
	register(r, exports...)
}
