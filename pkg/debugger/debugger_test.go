// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package debugger_test

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/lassandro/chipterm/pkg/chip8"
	"github.com/lassandro/chipterm/pkg/debugger"
)

func TestDisassemble(t *testing.T) {
	testCases := map[uint16]string{
		0x00E0: "CLS",
		0x00EE: "RET",
		0x00C4: "SCD 4",
		0x00FB: "SCR",
		0x00FC: "SCL",
		0x00FD: "EXIT",
		0x00FE: "LOW",
		0x00FF: "HIGH",
		0x1234: "JP 0x234",
		0x2ABC: "CALL 0xabc",
		0x3A05: "SE VA, 0x05",
		0x4BFF: "SNE VB, 0xff",
		0x5120: "SE V1, V2",
		0x6C42: "LD VC, 0x42",
		0x7D01: "ADD VD, 0x01",
		0x8120: "LD V1, V2",
		0x8121: "OR V1, V2",
		0x8122: "AND V1, V2",
		0x8123: "XOR V1, V2",
		0x8124: "ADD V1, V2",
		0x8125: "SUB V1, V2",
		0x8126: "SHR V1",
		0x8127: "SUBN V1, V2",
		0x812E: "SHL V1",
		0x9340: "SNE V3, V4",
		0xA2F0: "LD I, 0x2f0",
		0xB300: "JP V0, 0x300",
		0xC70F: "RND V7, 0x0f",
		0xD125: "DRW V1, V2, 5",
		0xD120: "DRW V1, V2, 0",
		0xE59E: "SKP V5",
		0xE6A1: "SKNP V6",
		0xF107: "LD V1, DT",
		0xF20A: "LD V2, K",
		0xF315: "LD DT, V3",
		0xF418: "LD ST, V4",
		0xF51E: "ADD I, V5",
		0xF629: "LD F, V6",
		0xF730: "LD HF, V7",
		0xF833: "LD B, V8",
		0xF955: "LD [I], V9",
		0xFA65: "LD VA, [I]",
		0xF775: "LD R, V7",
		0xF285: "LD V2, R",

		// Not instructions
		0x0000: "DW 0x0000",
		0x5121: "DW 0x5121",
		0x8128: "DW 0x8128",
		0xE500: "DW 0xe500",
		0xF099: "DW 0xf099",
		0xF875: "DW 0xf875",
	}

	for instruction, want := range testCases {
		if have := debugger.Disassemble(instruction); have != want {
			t.Errorf("Disassembly mismatch\nwant:%s (%#04x)\nhave:%s", want, instruction, have)
		}
	}
}

func TestBreakpoint(t *testing.T) {
	var dbg debugger.Debugger

	if !dbg.AddBreakpoint(0x204) || dbg.AddBreakpoint(0x204) {
		t.Fatal("Duplicate breakpoint accepted")
	}

	mc := chip8.New(chip8.WithDebugger(&dbg))

	// LD V0, 1; LD V1, 2; LD V2, 3
	if err := mc.Load(chip8.ProgramStart, []byte{0x60, 0x01, 0x61, 0x02, 0x62, 0x03}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := mc.ExecutionTick(); err != nil {
			t.Fatal(err)
		}
	}

	err := mc.ExecutionTick()

	if errors.Cause(err) != debugger.ErrBreakpoint {
		t.Fatalf("Error mismatch\nwant:%v\nhave:%v", debugger.ErrBreakpoint, err)
	}

	if !strings.Contains(err.Error(), "0x204") {
		t.Errorf("Breakpoint error does not name the address: %v", err)
	}

	if mc.State.Program != 0x204 || mc.State.Registers[2] != 0 {
		t.Error("Instruction at the breakpoint was executed")
	}

	if dbg.Steps() != 2 {
		t.Errorf("Step count mismatch\nwant:2\nhave:%d", dbg.Steps())
	}
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer

	dbg := debugger.Debugger{Trace: log.New(&buf, "", 0)}
	dbg.AddBreakpoint(0x202)

	if err := dbg.Step(0x200, 0x6001); err != nil {
		t.Fatal(err)
	}

	dbg.Step(0x202, 0x00E0)

	want := "[0x200] 6001  LD V0, 0x01\n[0x202] breakpoint after 1 steps\n"

	if buf.String() != want {
		t.Errorf("Trace mismatch\nwant:%q\nhave:%q", want, buf.String())
	}
}

func TestPrint(t *testing.T) {
	mc := chip8.New()
	mc.Load(chip8.ProgramStart, []byte{0x60, 0x01, 0x00, 0xE0})
	mc.State.Registers[0xF] = 0x01
	mc.State.Stack[0] = 0x20A
	mc.State.StackPointer = 1

	var regs bytes.Buffer
	debugger.PrintRegs(&regs, &mc.State)

	for _, want := range []string{"V0: 0x00", "VF: 0x01", "PC: 0x200", "#00: 0x20a"} {
		if !strings.Contains(regs.String(), want) {
			t.Errorf("Register dump missing %q:\n%s", want, regs.String())
		}
	}

	var mem bytes.Buffer
	debugger.PrintMem(&mem, &mc.State, 0x200, 2)

	want := ">[0x200] 6001  LD V0, 0x01\n [0x202] 00e0  CLS\n"

	if mem.String() != want {
		t.Errorf("Memory dump mismatch\nwant:%q\nhave:%q", want, mem.String())
	}
}
