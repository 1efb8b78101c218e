// Package symbol adds name-based variable access on top of the root
// client: resolving a PLC variable or struct field name to its ADS
// handle/offset, caching that resolution, and reading/writing through it.
// None of this is part of the base ADS protocol — it's a layer TwinCAT
// itself exposes through reserved index groups (ADSIGRP_SYM_*).
package symbol

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	adsmux "github.com/mrpasztoradam/adsmux"
)

// Reserved ADS index groups for symbolic access (InfoSys §TC3 ADS).
const (
	idxSymUploadInfo2 = 0xF00C
	idxSymUpload      = 0xF00B
	idxSymInfoByName  = 0xF009
	idxSymDTUpload    = 0xF011
	idxSymValByHandle = 0xF005
	idxSymReleaseHnd  = 0xF006
	idxSymHandleByName = 0xF003
)

// StructField describes one member of a PLC struct type.
type StructField struct {
	Name     string        `json:"name"`
	DataType string        `json:"type"`
	Offset   uint32        `json:"offset"`
	Size     uint32        `json:"size"`
	Fields   []StructField `json:"fields,omitempty"`
}

// Symbol is the resolved shape of a single PLC variable.
type Symbol struct {
	Name     string        `json:"name"`
	DataType string        `json:"type"`
	Size     uint32        `json:"size"`
	Fields   []StructField `json:"fields,omitempty"`
}

// Info is a cached Symbol plus the bookkeeping (handle, index group/offset)
// Session needs to read and write it again without re-resolving.
type Info struct {
	Name        string        `json:"name"`
	DataType    string        `json:"dataType"`
	Size        uint32        `json:"size"`
	IndexGroup  uint32        `json:"indexGroup"`
	IndexOffset uint32        `json:"indexOffset"`
	Handle      uint32        `json:"handle,omitempty"`
	Comment     string        `json:"comment,omitempty"`
	Fields      []StructField `json:"fields,omitempty"`
}

// Registry caches symbol resolutions by name.
type Registry struct {
	mu      sync.RWMutex
	symbols map[string]*Info
}

func NewRegistry() *Registry {
	return &Registry{symbols: make(map[string]*Info)}
}

func (r *Registry) Get(name string) (*Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.symbols[name]
	return info, ok
}

func (r *Registry) Set(name string, info *Info) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.symbols[name] = info
}

func (r *Registry) All() map[string]*Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*Info, len(r.symbols))
	for k, v := range r.symbols {
		out[k] = v
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.symbols)
}

// Session binds a Registry to one Client for name-based variable access.
type Session struct {
	client   *adsmux.Client
	registry *Registry
}

// NewSession wraps an already-dialled Client with name-based resolution and
// caching.
func NewSession(c *adsmux.Client) *Session {
	return &Session{client: c, registry: NewRegistry()}
}

// nullTerminatedString extracts a NUL-terminated string from a byte slice,
// or the whole slice if it carries no terminator.
func nullTerminatedString(data []byte) string {
	for i, b := range data {
		if b == 0 {
			return string(data[:i])
		}
	}
	return string(data)
}

// LoadSymbolTable uploads and parses the entire PLC symbol table with two
// requests (ADSIGRP_SYM_UPLOADINFO2, then ADSIGRP_SYM_UPLOAD), populating the
// registry. Use it to warm the cache up front instead of resolving each
// variable lazily on first access.
func (s *Session) LoadSymbolTable(ctx context.Context) error {
	infoData, err := s.client.Read(ctx, idxSymUploadInfo2, 0, 0x30)
	if err != nil {
		return fmt.Errorf("symbol: upload info: %w", err)
	}
	if len(infoData) >= 4 {
		count := binary.LittleEndian.Uint32(infoData[0:4])
		if count == 0 {
			return nil
		}
	}

	data, err := s.client.Read(ctx, idxSymUpload, 0, 0xFFFFFF)
	if err != nil {
		return fmt.Errorf("symbol: upload table: %w", err)
	}

	offset := 0
	for offset < len(data) {
		if offset+30 > len(data) {
			break
		}
		entryLength := binary.LittleEndian.Uint32(data[offset : offset+4])
		if entryLength == 0 || offset+int(entryLength) > len(data) {
			break
		}
		indexGroup := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		indexOffset := binary.LittleEndian.Uint32(data[offset+8 : offset+12])
		size := binary.LittleEndian.Uint32(data[offset+12 : offset+16])
		nameLength := binary.LittleEndian.Uint16(data[offset+24 : offset+26])
		typeLength := binary.LittleEndian.Uint16(data[offset+26 : offset+28])
		commentLength := binary.LittleEndian.Uint16(data[offset+28 : offset+30])

		nameStart := offset + 30
		nameEnd := nameStart + int(nameLength)
		if nameEnd > len(data) {
			break
		}
		name := nullTerminatedString(data[nameStart:nameEnd])

		typeStart := nameEnd + 1
		typeEnd := typeStart + int(typeLength)
		if typeEnd > len(data) {
			break
		}
		dataType := nullTerminatedString(data[typeStart:typeEnd])

		var comment string
		if commentLength > 0 {
			commentStart := typeEnd + 1
			commentEnd := commentStart + int(commentLength)
			if commentEnd <= len(data) {
				comment = nullTerminatedString(data[commentStart:commentEnd])
			}
		}

		s.registry.Set(name, &Info{
			Name:        name,
			DataType:    dataType,
			Size:        size,
			IndexGroup:  indexGroup,
			IndexOffset: indexOffset,
			Comment:     comment,
		})

		offset += int(entryLength)
	}

	return nil
}

// resolveSymbol resolves name's type/size via ADSIGRP_SYM_INFOBYNAMEEX when
// it isn't already cached.
func (s *Session) resolveSymbol(ctx context.Context, name string) (*Info, error) {
	if info, ok := s.registry.Get(name); ok {
		return info, nil
	}

	nameBytes := append([]byte(name), 0)
	data, err := s.client.ReadWrite(ctx, idxSymInfoByName, 0, 0xFFFF, nameBytes)
	if err != nil {
		return nil, fmt.Errorf("symbol: info by name %q: %w", name, err)
	}
	if len(data) < 30 {
		return nil, fmt.Errorf("symbol: short info response for %q (%d bytes)", name, len(data))
	}

	size := binary.LittleEndian.Uint32(data[12:16])
	nameLength := binary.LittleEndian.Uint16(data[24:26])
	typeLength := binary.LittleEndian.Uint16(data[26:28])

	typeStart := 30 + int(nameLength) + 1
	typeEnd := typeStart + int(typeLength)
	dataType := "UNKNOWN"
	if typeEnd <= len(data) {
		dataType = nullTerminatedString(data[typeStart:typeEnd])
	}

	info := &Info{Name: name, DataType: dataType, Size: size}
	s.registry.Set(name, info)
	return info, nil
}

// fieldsOf resolves the struct field layout for a data type name
// (ADSIGRP_SYM_DT_UPLOAD), caching the result on info.
func (s *Session) fieldsOf(ctx context.Context, info *Info) ([]StructField, error) {
	if len(info.Fields) > 0 {
		return info.Fields, nil
	}

	typeBytes := append([]byte(info.DataType), 0)
	data, err := s.client.ReadWrite(ctx, idxSymDTUpload, 0, 0xFFFF, typeBytes)
	if err != nil {
		return nil, fmt.Errorf("symbol: data type upload %q: %w", info.DataType, err)
	}
	if len(data) < 42 {
		return nil, fmt.Errorf("symbol: short data type response for %q", info.DataType)
	}

	subItems := binary.LittleEndian.Uint16(data[40:42])
	if subItems == 0 {
		return nil, nil
	}

	nameLength := binary.LittleEndian.Uint16(data[32:34])
	typeLength := binary.LittleEndian.Uint16(data[34:36])
	commentLength := binary.LittleEndian.Uint16(data[36:38])
	offset := 42 + int(nameLength) + 1 + int(typeLength) + 1 + int(commentLength) + 1

	fields := make([]StructField, 0, subItems)
	for i := 0; i < int(subItems) && offset < len(data); i++ {
		if offset+42 > len(data) {
			break
		}
		fieldSize := binary.LittleEndian.Uint32(data[offset+16 : offset+20])
		fieldOffset := binary.LittleEndian.Uint32(data[offset+20 : offset+24])
		fieldNameLen := binary.LittleEndian.Uint16(data[offset+32 : offset+34])
		fieldTypeLen := binary.LittleEndian.Uint16(data[offset+34 : offset+36])

		nameStart := offset + 42
		nameEnd := nameStart + int(fieldNameLen)
		if nameEnd > len(data) {
			break
		}
		fieldName := nullTerminatedString(data[nameStart:nameEnd])

		typeStart := nameEnd + 1
		typeEnd := typeStart + int(fieldTypeLen)
		if typeEnd > len(data) {
			break
		}
		fieldType := nullTerminatedString(data[typeStart:typeEnd])

		fields = append(fields, StructField{
			Name:     fieldName,
			DataType: fieldType,
			Offset:   fieldOffset,
			Size:     fieldSize,
		})

		entryLength := binary.LittleEndian.Uint32(data[offset : offset+4])
		if entryLength == 0 {
			break
		}
		offset += int(entryLength)
	}

	info.Fields = fields
	s.registry.Set(info.Name, info)
	return fields, nil
}

// handleFor resolves and caches the ADS symbol handle for name
// (ADSIGRP_SYM_HNDBYNAME), used as the index offset into ADSIGRP_SYM_VALBYHND.
func (s *Session) handleFor(ctx context.Context, name string) (uint32, error) {
	if info, ok := s.registry.Get(name); ok && info.Handle != 0 {
		return info.Handle, nil
	}

	data, err := s.client.ReadWrite(ctx, idxSymHandleByName, 0, 4, append([]byte(name), 0))
	if err != nil {
		return 0, fmt.Errorf("symbol: handle by name %q: %w", name, err)
	}
	if len(data) < 4 {
		return 0, fmt.Errorf("symbol: short handle response for %q", name)
	}
	handle := binary.LittleEndian.Uint32(data[0:4])

	if info, ok := s.registry.Get(name); ok {
		info.Handle = handle
		s.registry.Set(name, info)
	} else {
		s.registry.Set(name, &Info{Name: name, Handle: handle})
	}
	return handle, nil
}

// Read resolves name (from cache or the PLC) and reads its current value.
func (s *Session) Read(ctx context.Context, name string) ([]byte, *Info, error) {
	info, err := s.resolveSymbol(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	handle, err := s.handleFor(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.client.Read(ctx, idxSymValByHandle, handle, info.Size)
	if err != nil {
		return nil, nil, fmt.Errorf("symbol: read %q: %w", name, err)
	}
	return data, info, nil
}

// Write resolves name's handle and writes data to it.
func (s *Session) Write(ctx context.Context, name string, data []byte) error {
	handle, err := s.handleFor(ctx, name)
	if err != nil {
		return err
	}
	if err := s.client.Write(ctx, idxSymValByHandle, handle, data); err != nil {
		return fmt.Errorf("symbol: write %q: %w", name, err)
	}
	return nil
}

// WriteField writes fieldData into a member of a struct variable
// (rootVar.fieldPath...), read-modify-writing the whole struct since ADS
// has no sub-field write primitive. Only direct members of rootVar's type
// are resolved: fieldsOf does not load the layouts of nested struct types,
// so a fieldPath longer than one element fails with "not found".
func (s *Session) WriteField(ctx context.Context, rootVar string, fieldPath []string, fieldData []byte) error {
	info, err := s.resolveSymbol(ctx, rootVar)
	if err != nil {
		return err
	}
	handle, err := s.handleFor(ctx, rootVar)
	if err != nil {
		return err
	}

	current, err := s.client.Read(ctx, idxSymValByHandle, handle, info.Size)
	if err != nil {
		return fmt.Errorf("symbol: read struct %q: %w", rootVar, err)
	}

	fields, err := s.fieldsOf(ctx, info)
	if err != nil {
		return err
	}

	field, absOffset, err := findFieldWithOffset(fields, fieldPath, 0)
	if err != nil {
		return err
	}

	end := int(absOffset) + int(field.Size)
	if end > len(current) || len(fieldData) != int(field.Size) {
		return fmt.Errorf("symbol: field %v size mismatch", fieldPath)
	}
	copy(current[absOffset:end], fieldData)

	if err := s.client.Write(ctx, idxSymValByHandle, handle, current); err != nil {
		return fmt.Errorf("symbol: write struct %q: %w", rootVar, err)
	}
	return nil
}

// findFieldWithOffset walks a dotted field path, accumulating the absolute
// byte offset of the leaf field from the struct's base address.
func findFieldWithOffset(fields []StructField, path []string, base uint32) (*StructField, uint32, error) {
	if len(path) == 0 {
		return nil, 0, fmt.Errorf("symbol: empty field path")
	}
	for i := range fields {
		if fields[i].Name != path[0] {
			continue
		}
		abs := base + fields[i].Offset
		if len(path) == 1 {
			return &fields[i], abs, nil
		}
		return findFieldWithOffset(fields[i].Fields, path[1:], abs)
	}
	return nil, 0, fmt.Errorf("symbol: field %q not found", path[0])
}

// ReleaseHandle releases a symbol handle (ADSIGRP_SYM_RELEASEHND).
func (s *Session) ReleaseHandle(ctx context.Context, handle uint32) error {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, handle)
	return s.client.Write(ctx, idxSymReleaseHnd, 0, data)
}

// Close releases every handle this session has acquired.
func (s *Session) Close(ctx context.Context) error {
	var firstErr error
	for _, info := range s.registry.All() {
		if info.Handle == 0 {
			continue
		}
		if err := s.ReleaseHandle(ctx, info.Handle); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ExportSymbolsToJSON writes every cached symbol to filename as JSON.
func (s *Session) ExportSymbolsToJSON(filename string) error {
	all := s.registry.All()
	symbols := make([]*Info, 0, len(all))
	for _, info := range all {
		symbols = append(symbols, info)
	}
	data, err := json.MarshalIndent(symbols, "", "  ")
	if err != nil {
		return fmt.Errorf("symbol: marshal: %w", err)
	}
	return os.WriteFile(filename, data, 0o644)
}

// Count returns the number of cached symbols.
func (s *Session) Count() int { return s.registry.Count() }

// Has reports whether name is already cached.
func (s *Session) Has(name string) bool {
	_, ok := s.registry.Get(name)
	return ok
}
