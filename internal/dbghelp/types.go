package dbghelp

import (
	"fmt"
	"strings"
	"unsafe"
)

// MinidumpType mirrors the MINIDUMP_TYPE enumeration. The values are part of
// the dbghelp ABI and must not change.
type MinidumpType uint32

const (
	MiniDumpNormal                         MinidumpType = 0x00000000
	MiniDumpWithDataSegs                   MinidumpType = 0x00000001
	MiniDumpWithFullMemory                 MinidumpType = 0x00000002
	MiniDumpWithHandleData                 MinidumpType = 0x00000004
	MiniDumpFilterMemory                   MinidumpType = 0x00000008
	MiniDumpScanMemory                     MinidumpType = 0x00000010
	MiniDumpWithUnloadedModules            MinidumpType = 0x00000020
	MiniDumpWithIndirectlyReferencedMemory MinidumpType = 0x00000040
	MiniDumpFilterModulePaths              MinidumpType = 0x00000080
	MiniDumpWithProcessThreadData          MinidumpType = 0x00000100
	MiniDumpWithPrivateReadWriteMemory     MinidumpType = 0x00000200
	MiniDumpWithoutOptionalData            MinidumpType = 0x00000400
	MiniDumpWithFullMemoryInfo             MinidumpType = 0x00000800
	MiniDumpWithThreadInfo                 MinidumpType = 0x00001000
	MiniDumpWithCodeSegs                   MinidumpType = 0x00002000
	MiniDumpWithoutAuxiliaryState          MinidumpType = 0x00004000
	MiniDumpWithFullAuxiliaryState         MinidumpType = 0x00008000
	MiniDumpWithPrivateWriteCopyMemory     MinidumpType = 0x00010000
	MiniDumpIgnoreInaccessibleMemory       MinidumpType = 0x00020000
	MiniDumpWithTokenInformation           MinidumpType = 0x00040000
	MiniDumpWithModuleHeaders              MinidumpType = 0x00080000
	MiniDumpFilterTriage                   MinidumpType = 0x00100000

	// MiniDumpValidTypeFlags is the union of every flag above.
	MiniDumpValidTypeFlags MinidumpType = 0x001fffff
)

var typeNames = []struct {
	flag MinidumpType
	name string
}{
	{MiniDumpWithDataSegs, "WithDataSegs"},
	{MiniDumpWithFullMemory, "WithFullMemory"},
	{MiniDumpWithHandleData, "WithHandleData"},
	{MiniDumpFilterMemory, "FilterMemory"},
	{MiniDumpScanMemory, "ScanMemory"},
	{MiniDumpWithUnloadedModules, "WithUnloadedModules"},
	{MiniDumpWithIndirectlyReferencedMemory, "WithIndirectlyReferencedMemory"},
	{MiniDumpFilterModulePaths, "FilterModulePaths"},
	{MiniDumpWithProcessThreadData, "WithProcessThreadData"},
	{MiniDumpWithPrivateReadWriteMemory, "WithPrivateReadWriteMemory"},
	{MiniDumpWithoutOptionalData, "WithoutOptionalData"},
	{MiniDumpWithFullMemoryInfo, "WithFullMemoryInfo"},
	{MiniDumpWithThreadInfo, "WithThreadInfo"},
	{MiniDumpWithCodeSegs, "WithCodeSegs"},
	{MiniDumpWithoutAuxiliaryState, "WithoutAuxiliaryState"},
	{MiniDumpWithFullAuxiliaryState, "WithFullAuxiliaryState"},
	{MiniDumpWithPrivateWriteCopyMemory, "WithPrivateWriteCopyMemory"},
	{MiniDumpIgnoreInaccessibleMemory, "IgnoreInaccessibleMemory"},
	{MiniDumpWithTokenInformation, "WithTokenInformation"},
	{MiniDumpWithModuleHeaders, "WithModuleHeaders"},
	{MiniDumpFilterTriage, "FilterTriage"},
}

// Has reports whether every bit of flag is set in t.
func (t MinidumpType) Has(flag MinidumpType) bool {
	return t&flag == flag
}

func (t MinidumpType) String() string {
	if t == MiniDumpNormal {
		return "Normal"
	}

	var parts []string
	rest := t
	for _, n := range typeNames {
		if t.Has(n.flag) {
			parts = append(parts, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// ptrWords is the number of 32-bit words in a pointer on the build target.
const ptrWords = unsafe.Sizeof(uintptr(0)) / 4

// ExceptionInformation mirrors MINIDUMP_EXCEPTION_INFORMATION. The C struct
// is declared under pack(4), which puts ExceptionPointers at offset 4 even on
// 64-bit targets, so the pointer is held as 32-bit words.
type ExceptionInformation struct {
	ThreadID          uint32
	exceptionPointers [ptrWords]uint32
	clientPointers    int32
}

// NewExceptionInformation builds a dump request for the given thread.
// pointers is the address of an EXCEPTION_POINTERS record.
func NewExceptionInformation(threadID uint32, pointers uintptr, clientPointers bool) *ExceptionInformation {
	info := &ExceptionInformation{ThreadID: threadID}
	info.SetExceptionPointers(pointers)
	info.SetClientPointers(clientPointers)
	return info
}

// ExceptionPointers returns the stored EXCEPTION_POINTERS address.
func (e *ExceptionInformation) ExceptionPointers() uintptr {
	var p uintptr
	for i := range e.exceptionPointers {
		p |= uintptr(e.exceptionPointers[i]) << (32 * uint(i))
	}
	return p
}

func (e *ExceptionInformation) SetExceptionPointers(p uintptr) {
	for i := range e.exceptionPointers {
		e.exceptionPointers[i] = uint32(p >> (32 * uint(i)))
	}
}

// ClientPointers reports whether ExceptionPointers refers to memory in the
// target process rather than the caller.
func (e *ExceptionInformation) ClientPointers() bool {
	return e.clientPointers != 0
}

func (e *ExceptionInformation) SetClientPointers(v bool) {
	e.clientPointers = 0
	if v {
		e.clientPointers = 1
	}
}

const exceptionMaximumParameters = 15

const (
	// ExceptionNoncontinuable is EXCEPTION_NONCONTINUABLE.
	ExceptionNoncontinuable = 0x1

	// ExceptionGoPanic is the code recorded for a synthesized panic exception.
	// Bit 29 marks it as an application-defined code.
	ExceptionGoPanic uint32 = 0xE0474F50
)

// ExceptionRecord mirrors EXCEPTION_RECORD.
type ExceptionRecord struct {
	ExceptionCode        uint32
	ExceptionFlags       uint32
	ExceptionRecord      *ExceptionRecord
	ExceptionAddress     uintptr
	NumberParameters     uint32
	ExceptionInformation [exceptionMaximumParameters]uintptr
}

// ExceptionPointers mirrors EXCEPTION_POINTERS. ContextRecord points at an
// architecture-specific CONTEXT.
type ExceptionPointers struct {
	ExceptionRecord *ExceptionRecord
	ContextRecord   unsafe.Pointer

	// backing keeps the CONTEXT buffer reachable.
	backing []byte
}

// Addr returns the address of p, suitable for ExceptionInformation.
func (p *ExceptionPointers) Addr() uintptr {
	if p == nil {
		return 0
	}
	return uintptr(unsafe.Pointer(p))
}
