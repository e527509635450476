package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Line is a line of assembled code with its source location and generated
// words.
type Line struct {
	LineNo int            // Source line number.
	Ip     int64          // Address of the first generated word.
	Words  []string       // Source words, after equate and macro expansion.
	Codes  []int64        // Generated words.
	Links  map[int]string // Code index to label, resolved at link time.
}

// Program is an assembled, or disassembled, listing.
type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// Debug returns the line that generated the word at ip.
func (prog *Program) Debug(ip int64) (dbg Debug) {
	for n, line := range prog.Lines {
		if ip >= line.Ip && ip < line.Ip+int64(len(line.Codes)) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: int(ip - line.Ip),
			}
			break
		}
	}

	return
}

// Binary returns the program words, ready to load into a Cpu.
func (prog *Program) Binary() (bins []int64) {
	for ip, code := range prog.Words() {
		if ip > int64(len(bins)) {
			bins = append(bins, make([]int64, ip-int64(len(bins)))...)
		}
		bins = append(bins, code)
	}

	return
}

// Words iterates over the address and value of every generated word.
func (prog *Program) Words() iter.Seq2[int64, int64] {
	return func(yield func(ip int64, code int64) bool) {
		for _, line := range prog.Lines {
			for n, code := range line.Codes {
				if !yield(line.Ip+int64(n), code) {
					return
				}
			}
		}
	}
}

// String returns the program as assembly source text.
func (prog *Program) String() string {
	var text strings.Builder
	for _, line := range prog.Lines {
		text.WriteString(strings.Join(line.Words, " "))
		text.WriteString("\n")
	}

	return text.String()
}

// Listing returns the program with the address and words of each line.
func (prog *Program) Listing() string {
	var text strings.Builder
	for _, line := range prog.Lines {
		codes := make([]string, len(line.Codes))
		for n, code := range line.Codes {
			codes[n] = fmt.Sprintf("%d", code)
		}
		fmt.Fprintf(&text, "%04d  %-28s %v\n", line.Ip, strings.Join(codes, ","), strings.Join(line.Words, " "))
	}

	return text.String()
}

// Disassemble converts program words into a listing. Words that do not
// decode into an instruction that would assemble back to the same words are
// listed as .data.
func Disassemble(words []int64) (prog *Program) {
	prog = &Program{}

	for ip := int64(0); ip < int64(len(words)); {
		line := Line{LineNo: len(prog.Lines) + 1, Ip: ip}

		inst, err := Decode(words[ip])
		end := ip + 1 + int64(inst.Arity())
		if err != nil || !inst.Canonical() || end > int64(len(words)) {
			line.Words = []string{".data", fmt.Sprintf("%d", words[ip])}
			line.Codes = []int64{words[ip]}
		} else {
			line.Codes = append([]int64(nil), words[ip:end]...)
			line.Words = strings.Fields(inst.Format(line.Codes[1:]...))
		}

		prog.Lines = append(prog.Lines, line)
		ip += int64(len(line.Codes))
	}

	return
}
