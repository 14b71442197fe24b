package isa

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a persisted image encoding.
type Format int

const (
	FORMAT_JSON = Format(0) // json
	FORMAT_YAML = Format(1) // yaml
)

func (format Format) String() string {
	switch format {
	case FORMAT_JSON:
		return "json"
	case FORMAT_YAML:
		return "yaml"
	}
	return "unknown"
}

// FormatOf selects an image format from a file name extension.
// Anything that is not .yml or .yaml is JSON.
func FormatOf(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yml", ".yaml":
		return FORMAT_YAML
	}
	return FORMAT_JSON
}

// record is the persisted form of an Instruction.
type record struct {
	Opcode *Opcode      `json:"opcode" yaml:"opcode"`
	Arg    *int32       `json:"arg,omitempty" yaml:"arg,omitempty"`
	Mode   *AddressMode `json:"addr_mode,omitempty" yaml:"addr_mode,omitempty"`
}

// document is the persisted form of an Image.
type document struct {
	Code []record `json:"code" yaml:"code"`
	Data []int32  `json:"data" yaml:"data"`
}

func toRecord(in Instruction) (rec record) {
	op := in.Opcode
	rec.Opcode = &op
	if in.Opcode.HasOperand() {
		arg := in.Arg
		mode := in.Mode
		rec.Arg = &arg
		rec.Mode = &mode
	}
	return
}

func fromRecord(rec record) (in Instruction, err error) {
	if rec.Opcode == nil {
		err = ErrOpcodeMissing
		return
	}

	in.Opcode = *rec.Opcode
	switch {
	case rec.Arg != nil && rec.Mode == nil:
		err = ErrOperandMissing
		return
	case rec.Arg == nil && rec.Mode != nil:
		err = ErrOperandMissing
		return
	case rec.Arg != nil:
		in.Arg = *rec.Arg
		in.Mode = *rec.Mode
	}

	err = in.Validate()
	return
}

func toDocument(image *Image) (doc document, err error) {
	err = image.Code.Validate()
	if err != nil {
		return
	}

	doc.Code = make([]record, len(image.Code))
	for n, in := range image.Code {
		doc.Code[n] = toRecord(in)
	}
	doc.Data = image.Data
	if doc.Data == nil {
		doc.Data = []int32{}
	}
	return
}

func fromRecords(recs []record) (prog Program, err error) {
	prog = make(Program, len(recs))
	for n, rec := range recs {
		prog[n], err = fromRecord(rec)
		if err != nil {
			err = ErrRecord{Index: n, Err: err}
			prog = nil
			return
		}
	}
	return
}

// WriteImage encodes an image. JSON output is indented by four spaces and
// ends with a newline.
func WriteImage(out io.Writer, image *Image, format Format) (err error) {
	doc, err := toDocument(image)
	if err != nil {
		return
	}

	switch format {
	case FORMAT_JSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "    ")
		err = enc.Encode(&doc)
	case FORMAT_YAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(4)
		err = enc.Encode(&doc)
		if err == nil {
			err = enc.Close()
		}
	default:
		err = ErrFormatUnknown
	}

	return
}

// ReadImage decodes an image. A bare list of instruction records is accepted
// as a program with an empty data segment.
func ReadImage(in io.Reader, format Format) (image *Image, err error) {
	text, err := io.ReadAll(in)
	if err != nil {
		return
	}

	var doc document
	switch format {
	case FORMAT_JSON:
		doc, err = decodeJSON(text)
	case FORMAT_YAML:
		doc, err = decodeYAML(text)
	default:
		err = ErrFormatUnknown
	}
	if err != nil {
		return
	}

	code, err := fromRecords(doc.Code)
	if err != nil {
		return
	}

	image = &Image{Code: code, Data: doc.Data}
	if image.Data == nil {
		image.Data = []int32{}
	}

	return
}

func decodeJSON(text []byte) (doc document, err error) {
	text = bytes.TrimSpace(text)
	if len(text) == 0 {
		err = ErrImageEmpty
		return
	}

	dec := json.NewDecoder(bytes.NewReader(text))
	dec.DisallowUnknownFields()
	if text[0] == '[' {
		err = dec.Decode(&doc.Code)
	} else {
		err = dec.Decode(&doc)
	}
	return
}

func decodeYAML(text []byte) (doc document, err error) {
	var node yaml.Node
	err = yaml.Unmarshal(text, &node)
	if err != nil {
		return
	}

	if len(node.Content) == 0 {
		err = ErrImageEmpty
		return
	}

	// Node.Decode does not check for unknown keys, so decode the text again.
	dec := yaml.NewDecoder(bytes.NewReader(text))
	dec.KnownFields(true)
	if node.Content[0].Kind == yaml.SequenceNode {
		err = dec.Decode(&doc.Code)
	} else {
		err = dec.Decode(&doc)
	}
	return
}

// LoadImage reads an image file, selecting the format by extension.
func LoadImage(filename string) (image *Image, err error) {
	inf, err := os.Open(filename)
	if err != nil {
		return
	}
	defer inf.Close()

	image, err = ReadImage(inf, FormatOf(filename))
	return
}

// SaveImage writes an image file, selecting the format by extension.
func SaveImage(filename string, image *Image) (err error) {
	ouf, err := os.Create(filename)
	if err != nil {
		return
	}

	err = WriteImage(ouf, image, FormatOf(filename))
	if cerr := ouf.Close(); err == nil {
		err = cerr
	}
	return
}
