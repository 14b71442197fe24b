package isa

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// DATA_LIMIT bounds the data segment an assembly may build, in words.
const DATA_LIMIT = math.MaxUint16

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":   "0",
	"WORD_MAX": fmt.Sprintf("%d", math.MaxInt32),
	"WORD_MIN": fmt.Sprintf("%d", math.MinInt32),
}

// link is a label reference waiting for the final pass.
type link struct {
	Index  int    // Index of the instruction to patch.
	Label  string // Label to resolve.
	LineNo int    // Source line of the reference.
	Line   string // Source text of the reference.
}

// Assembler is a two pass assembler for the accumulator machine.
//
// Each line holds an optional `label:`, then either a directive or an
// instruction. Operands are written `#n` for immediate, `n` for direct and
// `[n]` for indirect addressing. Jump targets are labels or program indexes.
//
// Directives:
//
//	.equ NAME VALUE         define an equate
//	.word ADDR VALUE...     place words in the data segment
//	.string ADDR "text"     place a length-prefixed string in the data segment
//
// Values may be numbers, equates, 'c' character literals, or $(expr)
// compile-time expressions over the equates.
type Assembler struct {
	Verbose bool               // If set, verbosely logs the assembler actions.
	Logger  logrus.FieldLogger // Destination for verbose logging.

	Code   Program           // Assembled instructions.
	Data   []int32           // Assembled data segment.
	Label  map[string]int    // Map of jump labels to program indexes.
	Equate map[string]string // Map of equates.

	predefine map[string]string // Predefines
	links     []link            // Pending label references.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

func (asm *Assembler) logger() logrus.FieldLogger {
	if asm.Logger == nil {
		return logrus.StandardLogger()
	}
	return asm.Logger
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int32, err error) {
	equate, ok := asm.Equate[word]
	if ok {
		word = equate
	}

	v64, err := strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int32(v64)
	return
}

// isLabel returns true if the word could name a label.
var isLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`).MatchString

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 int32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Only integer equates are visible to expressions.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 > math.MaxInt32 || st_int64 < math.MinInt32 {
		err = ErrParseExpression(expr)
		return
	}
	value = int32(st_int64)
	return
}

// stripComment removes a trailing ';' comment outside of double quotes.
func stripComment(text string) string {
	quoted := false
	for n, r := range text {
		switch r {
		case '"':
			quoted = !quoted
		case ';':
			if !quoted {
				return text[:n]
			}
		}
	}
	return text
}

var (
	reChar   = regexp.MustCompile(`'\\?[^']'`)
	reParen  = regexp.MustCompile(`\$\([^\$]*\)`)
	reString = regexp.MustCompile(`^\.string\s+(\S+)\s+(".*")$`)
)

// expand substitutes character literals and $() expressions.
func (asm *Assembler) expand(line string) (out string, err error) {
	// Do 'x' evaluations
	out = reChar.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' && len(str) > 1 {
			switch str[1:] {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "0":
				str = "\x00"
			default:
				return word
			}
		}
		return fmt.Sprintf("%d", []rune(str)[0])
	})

	// Do $() evaluations
	out = reParen.ReplaceAllStringFunc(out, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})

	return
}

// place writes words into the data segment starting at addr.
func (asm *Assembler) place(addr int32, words ...int32) (err error) {
	if addr < 0 {
		err = ErrDataSyntax
		return
	}

	end := int(addr) + len(words)
	if end > DATA_LIMIT {
		err = ErrDataSyntax
		return
	}
	if end > len(asm.Data) {
		asm.Data = slices.Grow(asm.Data, end-len(asm.Data))[:end]
	}
	copy(asm.Data[addr:], words)
	return
}

// parseString handles the .string directive.
func (asm *Assembler) parseString(line string) (err error) {
	match := reString.FindStringSubmatch(line)
	if match == nil {
		err = ErrDataSyntax
		return
	}

	addr_word, err := asm.expand(match[1])
	if err != nil {
		return
	}
	addr, err := asm.valueOf(addr_word)
	if err != nil {
		return
	}

	text, err := strconv.Unquote(match[2])
	if err != nil {
		err = ErrDataSyntax
		return
	}

	runes := []rune(text)
	words := make([]int32, 0, len(runes)+1)
	words = append(words, int32(len(runes)))
	for _, r := range runes {
		words = append(words, int32(r))
	}

	err = asm.place(addr, words...)
	return
}

// parseLine parses a single line of source.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%d", lineno)

	// Labels come first, so they can prefix any line.
	for {
		head, rest, ok := strings.Cut(line, ":")
		head = strings.TrimSpace(head)
		if !ok || !isLabel(head) {
			break
		}
		_, dup := asm.Label[head]
		if dup {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[head] = len(asm.Code)
		line = strings.TrimSpace(rest)
	}

	if strings.HasPrefix(line, ".string") {
		err = asm.parseString(line)
		return
	}

	line, err = asm.expand(line)
	if err != nil {
		return
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	switch words[0] {
	case ".equ":
		// .equ CONST VALUE
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		return
	case ".word":
		// .word ADDR VALUE...
		if len(words) < 3 {
			err = ErrDataSyntax
			return
		}
		var addr int32
		addr, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		values := make([]int32, len(words)-2)
		for n, word := range words[2:] {
			values[n], err = asm.valueOf(word)
			if err != nil {
				return
			}
		}
		err = asm.place(addr, values...)
		return
	}

	if strings.HasPrefix(words[0], ".") {
		err = ErrDirectiveUnknown
		return
	}

	err = asm.parseWords(words, lineno, line)
	return
}

// parseWords evaluates the words of an instruction.
func (asm *Assembler) parseWords(words []string, lineno int, line string) (err error) {
	op, err := ParseOpcode(strings.ToUpper(words[0]))
	if err != nil {
		return
	}

	args := words[1:]
	if !op.HasOperand() {
		if len(args) != 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		asm.Code = append(asm.Code, MakeInstruction(op))
		return
	}

	if len(args) == 0 {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > 1 {
		err = ErrOpcodeExtraArgs
		return
	}

	word := args[0]
	mode := MODE_DIRECT
	switch {
	case op.IsJump():
		mode = MODE_IMMEDIATE
		word = strings.TrimPrefix(word, "#")
	case strings.HasPrefix(word, "#"):
		mode = MODE_IMMEDIATE
		word = word[1:]
	case strings.HasPrefix(word, "[") && strings.HasSuffix(word, "]"):
		mode = MODE_INDIRECT
		word = word[1 : len(word)-1]
	}

	if len(word) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	value, err := asm.valueOf(word)
	if err != nil {
		_, is_equate := asm.Equate[word]
		if is_equate || !isLabel(word) {
			return
		}
		// Resolved against the label table in the final pass.
		err = nil
		asm.links = append(asm.links, link{Index: len(asm.Code), Label: word, LineNo: lineno, Line: line})
	}

	asm.Code = append(asm.Code, MakeOperand(op, value, mode))
	return
}

// Parse parses an input stream into an Image.
func (asm *Assembler) Parse(input io.Reader) (image *Image, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Code = Program{}
	asm.Data = []int32{}
	asm.links = nil
	asm.Label = make(map[string]int, 16)
	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, asm.predefine)

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			asm.logger().WithField("line", lineno).Debug(text)
		}

		line = strings.TrimSpace(stripComment(text))
		if len(line) == 0 {
			continue
		}

		err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of jump labels.
	for _, ln := range asm.links {
		pc, ok := asm.Label[ln.Label]
		if !ok {
			lineno = ln.LineNo
			line = ln.Line
			err = ErrLabelMissing(ln.Label)
			return
		}
		asm.Code[ln.Index].Arg = int32(pc)
	}

	image = &Image{
		Code: slices.Clone(asm.Code),
		Data: slices.Clone(asm.Data),
	}

	return
}
