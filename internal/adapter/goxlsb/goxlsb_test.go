package goxlsb

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/corpus"
	"github.com/unbound-force/assay/internal/sheet"
)

// writeRec appends one BIFF12 record: variable-length id, then
// 7-bit-encoded payload length, then the payload.
func writeRec(buf *bytes.Buffer, id int, payload []byte) {
	if id < 0x80 {
		buf.WriteByte(byte(id))
	} else {
		buf.WriteByte(byte(id & 0xFF))
		buf.WriteByte(byte(id >> 8))
	}
	n := len(payload)
	for {
		b := n & 0x7F
		n >>= 7
		if n > 0 {
			buf.WriteByte(byte(b) | 0x80)
		} else {
			buf.WriteByte(byte(b))
			break
		}
	}
	buf.Write(payload)
}

func encStr(s string) []byte {
	runes := []rune(s)
	var sb bytes.Buffer
	binary.Write(&sb, binary.LittleEndian, uint32(len(runes)))
	for _, r := range runes {
		binary.Write(&sb, binary.LittleEndian, uint16(r))
	}
	return sb.Bytes()
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func le64f(v float64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	return b
}

// makeXF encodes a BrtXF payload: ixfe, numFmtId, then zeroed font,
// fill, border, and flag fields.
func makeXF(numFmtID uint16) []byte {
	p := make([]byte, 12)
	binary.LittleEndian.PutUint16(p[2:], numFmtID)
	return p
}

func cellPayload(col, style uint32, body []byte) []byte {
	var p bytes.Buffer
	p.Write(le32(col))
	p.Write(le32(style))
	p.Write(body)
	return p.Bytes()
}

// fixtureXLSB assembles a single-sheet workbook on disk:
//
//	A1 float 42.5, B1 shared string "hello",
//	C1 #DIV/0! error, D1 date serial 45285 (style 1 = builtin 14).
func fixtureXLSB(t *testing.T) string {
	t.Helper()

	var wb bytes.Buffer
	writeRec(&wb, 0x0183, nil) // workbook start
	writeRec(&wb, 0x018F, nil) // sheets start
	var sheetRec bytes.Buffer
	sheetRec.Write(le32(0)) // visible
	sheetRec.Write(le32(1)) // sheetId
	sheetRec.Write(encStr("rId1"))
	sheetRec.Write(encStr("Data"))
	writeRec(&wb, 0x019C, sheetRec.Bytes())
	writeRec(&wb, 0x0190, nil) // sheets end
	writeRec(&wb, 0x0184, nil) // workbook end

	var sst bytes.Buffer
	hdr := make([]byte, 8)
	binary.LittleEndian.PutUint32(hdr[0:], 1)
	binary.LittleEndian.PutUint32(hdr[4:], 1)
	writeRec(&sst, 0x019F, hdr)
	writeRec(&sst, 0x0013, append([]byte{0x00}, encStr("hello")...))
	writeRec(&sst, 0x01A0, nil)

	// styles: xf[0] General, xf[1] builtin date m/d/yy
	var st bytes.Buffer
	writeRec(&st, 0x0296, nil)
	writeRec(&st, 0x04E9, nil)
	writeRec(&st, 0x002F, makeXF(0))
	writeRec(&st, 0x002F, makeXF(14))
	writeRec(&st, 0x04EA, nil)
	writeRec(&st, 0x0297, nil)

	var ws bytes.Buffer
	writeRec(&ws, 0x0181, nil) // worksheet start
	var dim bytes.Buffer
	dim.Write(le32(0))
	dim.Write(le32(0))
	dim.Write(le32(0))
	dim.Write(le32(3))
	writeRec(&ws, 0x0194, dim.Bytes())
	writeRec(&ws, 0x0191, nil)     // sheetdata start
	writeRec(&ws, 0x0000, le32(0)) // row 0

	writeRec(&ws, 0x0005, cellPayload(0, 0, le64f(42.5)))    // float
	writeRec(&ws, 0x0007, cellPayload(1, 0, le32(0)))        // shared string 0
	writeRec(&ws, 0x0003, cellPayload(2, 0, []byte{0x07}))   // #DIV/0!
	writeRec(&ws, 0x0005, cellPayload(3, 1, le64f(45285.0))) // 2023-12-25

	writeRec(&ws, 0x0192, nil) // sheetdata end
	writeRec(&ws, 0x0182, nil) // worksheet end

	var zipBuf bytes.Buffer
	zw := zip.NewWriter(&zipBuf)
	add := func(name string, data []byte) {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := f.Write(data); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	rels := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="worksheet" Target="worksheets/sheet1.bin"/>` +
		`</Relationships>`
	add("xl/_rels/workbook.bin.rels", []byte(rels))
	add("xl/workbook.bin", wb.Bytes())
	add("xl/sharedStrings.bin", sst.Bytes())
	add("xl/styles.bin", st.Bytes())
	add("xl/worksheets/sheet1.bin", ws.Bytes())
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	path := filepath.Join(t.TempDir(), "fixture.xlsb")
	if err := os.WriteFile(path, zipBuf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func openFixture(t *testing.T) adapter.Reader {
	t.Helper()
	r, err := New().OpenReader(fixtureXLSB(t))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestInfo(t *testing.T) {
	info := New().Info()
	if info.Name != "goxlsb" {
		t.Errorf("name = %q, want goxlsb", info.Name)
	}
	if got := New().Formats(); len(got) != 1 || got[0] != "xlsb" {
		t.Errorf("formats = %v, want [xlsb]", got)
	}
}

func TestSheetNames(t *testing.T) {
	names, err := openFixture(t).SheetNames()
	if err != nil {
		t.Fatalf("SheetNames: %v", err)
	}
	if len(names) != 1 || names[0] != "Data" {
		t.Errorf("sheets = %v, want [Data]", names)
	}
}

func TestNumberValue(t *testing.T) {
	v, err := openFixture(t).CellValue("Data", sheet.Ref{Col: 1, Row: 1})
	if err != nil {
		t.Fatalf("CellValue: %v", err)
	}
	if v.Type != sheet.TypeNumber || v.Value != 42.5 {
		t.Errorf("got %+v, want number 42.5", v)
	}
}

func TestSharedStringValue(t *testing.T) {
	v, err := openFixture(t).CellValue("Data", sheet.Ref{Col: 2, Row: 1})
	if err != nil {
		t.Fatalf("CellValue: %v", err)
	}
	if v.Type != sheet.TypeString || v.Value != "hello" {
		t.Errorf("got %+v, want string hello", v)
	}
}

func TestErrorValue(t *testing.T) {
	v, err := openFixture(t).CellValue("Data", sheet.Ref{Col: 3, Row: 1})
	if err != nil {
		t.Fatalf("CellValue: %v", err)
	}
	if v.Type != sheet.TypeError || v.Value != "#DIV/0!" {
		t.Errorf("got %+v, want error #DIV/0!", v)
	}
}

func TestDateValue(t *testing.T) {
	v, err := openFixture(t).CellValue("Data", sheet.Ref{Col: 4, Row: 1})
	if err != nil {
		t.Fatalf("CellValue: %v", err)
	}
	if v.Type != sheet.TypeDate {
		t.Fatalf("type = %v, want date", v.Type)
	}
	if v.Value != "2023-12-25T00:00:00" {
		t.Errorf("value = %v, want 2023-12-25T00:00:00", v.Value)
	}
}

func TestBlankValue(t *testing.T) {
	v, err := openFixture(t).CellValue("Data", sheet.Ref{Col: 8, Row: 8})
	if err != nil {
		t.Fatalf("CellValue: %v", err)
	}
	if v.Type != sheet.TypeBlank {
		t.Errorf("got %+v, want blank", v)
	}
}

func TestUnknownSheet(t *testing.T) {
	_, err := openFixture(t).CellValue("Nope", sheet.Ref{Col: 1, Row: 1})
	if err == nil {
		t.Fatal("expected error for unknown sheet")
	}
}

func TestFormatProbesUnsupported(t *testing.T) {
	r := openFixture(t)
	_, err := r.CellFormat("Data", sheet.Ref{Col: 1, Row: 1})
	if !errors.Is(err, adapter.ErrUnsupported) {
		t.Errorf("CellFormat err = %v, want ErrUnsupported", err)
	}
}

func TestWriteUnsupported(t *testing.T) {
	err := New().WriteCase(filepath.Join(t.TempDir(), "out.xlsb"), corpus.TestFile{}, corpus.TestCase{})
	if !errors.Is(err, adapter.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestOpenReaderMissing(t *testing.T) {
	_, err := New().OpenReader(filepath.Join(t.TempDir(), "absent.xlsb"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
