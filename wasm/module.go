/*
 * Cadence - The resource-oriented smart contract programming language
 *
 * Copyright Flow Foundation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package wasm

// Module represents a module.
type Module struct {
	Name               string
	Types              []*FunctionType
	Imports            []*Import
	Functions          []*Function
	Memories           []*Memory
	Globals            []*Global
	Exports            []*Export
	StartFunctionIndex *uint32
	Data               []*Data
}

// ValueType is the type of a value.
type ValueType byte

const (
	ValueTypeI32 ValueType = 0x7F
	ValueTypeI64 ValueType = 0x7E
)

func (ValueType) isBlockType() {}

func (t ValueType) String() string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	}
	return "unknown"
}

// functionTypeIndicator is the byte used to indicate a function type in the WASM binary.
const functionTypeIndicator = 0x60

// FunctionType is the type of a function.
// It may have multiple parameters and return values.
type FunctionType struct {
	Params  []ValueType
	Results []ValueType
}

// Equal returns true if the types have the same parameters and results.
func (t *FunctionType) Equal(other *FunctionType) bool {
	if len(t.Params) != len(other.Params) || len(t.Results) != len(other.Results) {
		return false
	}
	for i, param := range t.Params {
		if other.Params[i] != param {
			return false
		}
	}
	for i, result := range t.Results {
		if other.Results[i] != result {
			return false
		}
	}
	return true
}

// Import represents an import of a function.
type Import struct {
	Module    string
	Name      string
	TypeIndex uint32
}

// FullName returns the name of the import, qualified by its module.
func (imp Import) FullName() string {
	return imp.Module + "." + imp.Name
}

// importIndicator is the byte used to indicate the kind of import in the WASM binary.
type importIndicator byte

const (
	// importIndicatorFunction is the byte used to indicate the import of a function in the WASM binary
	importIndicatorFunction importIndicator = 0x0
)

// Function represents a function.
type Function struct {
	Name      string
	TypeIndex uint32
	Code      *Code
}

// Code represents the code of a function.
type Code struct {
	Locals       []ValueType
	Instructions []Instruction
}

// Global represents a global.
type Global struct {
	Type    ValueType
	Mutable bool
	Init    []Instruction
}

// Export represents an export.
type Export struct {
	Name       string
	Descriptor ExportDescriptor
}

// ExportDescriptor is the exported item of an export.
type ExportDescriptor interface {
	isExportDescriptor()
}

// FunctionExport exports a function.
type FunctionExport struct {
	FunctionIndex uint32
}

func (FunctionExport) isExportDescriptor() {}

// MemoryExport exports a memory.
type MemoryExport struct {
	MemoryIndex uint32
}

func (MemoryExport) isExportDescriptor() {}

// GlobalExport exports a global.
type GlobalExport struct {
	GlobalIndex uint32
}

func (GlobalExport) isExportDescriptor() {}

// exportIndicator is the byte used to indicate the kind of export in the WASM binary.
type exportIndicator byte

const (
	exportIndicatorFunction exportIndicator = 0x0
	exportIndicatorMemory   exportIndicator = 0x2
	exportIndicatorGlobal   exportIndicator = 0x3
)

// MemoryPageSize is the size of a memory page: 64KiB.
const MemoryPageSize = 64 * 1024

// Memory represents a memory.
type Memory struct {
	// maximum number of pages (each one is 64KiB in size). optional, unlimited if nil.
	Max *uint32
	// minimum number of pages (each one is 64KiB in size).
	Min uint32
}

// limitIndicator is the byte used to indicate the kind of limit in the WASM binary.
type limitIndicator byte

const (
	limitIndicatorNoMax limitIndicator = 0x0
	limitIndicatorMax   limitIndicator = 0x1
)

// Data represents a data segment, which initializes memory.
type Data struct {
	// index of memory to initialize.
	// currently always 0 (only a single memory is supported).
	MemoryIndex uint32
	// instructions that compute the offset in the memory to initialize.
	Offset []Instruction
	// bytes to initialize the memory with.
	Init []byte
}

// DataSize returns the number of bytes initialized by the data segments of the module.
func (m *Module) DataSize() uint64 {
	var size uint64
	for _, data := range m.Data {
		size += uint64(len(data.Init))
	}
	return size
}

// sectionID is the ID of a section in the WASM binary.
type sectionID byte

const (
	sectionIDCustom   sectionID = 0
	sectionIDType     sectionID = 1
	sectionIDImport   sectionID = 2
	sectionIDFunction sectionID = 3
	sectionIDMemory   sectionID = 5
	sectionIDGlobal   sectionID = 6
	sectionIDExport   sectionID = 7
	sectionIDStart    sectionID = 8
	sectionIDCode     sectionID = 10
	sectionIDData     sectionID = 11
)

// customSectionNameName is the name of the custom section holding names.
const customSectionNameName = "name"

// nameSubSectionID is the ID of a sub-section in the name section.
type nameSubSectionID byte

const (
	nameSubSectionIDModuleName    nameSubSectionID = 0
	nameSubSectionIDFunctionNames nameSubSectionID = 1
)

// wasmMagic is the magic byte sequence that begins every WASM binary.
var wasmMagic = []byte{0x0, 0x61, 0x73, 0x6D}

// wasmVersion is the version of WASM binaries written.
var wasmVersion = []byte{0x1, 0x0, 0x0, 0x0}
