// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	stdio "io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/deciss/cpu"
	"github.com/ezrec/deciss/internal"
	"github.com/ezrec/deciss/io"
)

const (
	RESULT_ADDRESS = cpu.DATA_START_ADDRESS + 2 // Result cell of the canned scenario.
)

var _emulator_defines = map[string]string{
	"RESULT_ADDRESS": fmt.Sprintf("%v", RESULT_ADDRESS),
}

// Outcome is the final state of a run.
type Outcome struct {
	State   cpu.CpuState // Halted or faulted.
	Address int          // Address of the halting or faulting instruction.
	Ticks   int          // Instructions executed.
	Err     error        // *ErrRuntime when faulted.
}

// Emulator state. CPU + program + loader ROM.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Rom   io.Rom // Word image loaded into memory on reset.
	Limit int    // Maximum ticks per run. Zero is unlimited.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu: cpu.NewCpu(),
	}

	emu.Rom.Capacity = cpu.MEMORY_SIZE

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset the emulator state, and load the ROM into memory.
// If a program is attached, its image replaces the ROM contents.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	if emu.Program != nil {
		emu.Rom.Data = nil
		for word := range emu.Program.Words() {
			err = emu.Rom.Send(int(word))
			if err != nil {
				// Memory holds no more than the ROM capacity.
				err = nil
				break
			}
		}
	}

	emu.Cpu.Reset()

	words := internal.IterSeqMap(emu.Rom.Receive(), func(value int) cpu.Word { return cpu.Word(value) })
	count, err := emu.Cpu.Load(words)
	if errors.Is(err, cpu.ErrInputExhausted) {
		// Unfilled cells stay zero.
		if emu.Verbose {
			log.Printf("emulator: %d of %d cells loaded", count, cpu.MEMORY_SIZE)
		}
		err = nil
	}

	return
}

// LoadFrom reads a word stream into the ROM, detaches any program listing,
// and resets the emulator.
//
// Loading stops at the first token that is not a decimal integer; the
// words before it are still loaded, and the *io.ErrWord is returned.
func (emu *Emulator) LoadFrom(input stdio.Reader) (err error) {
	tape := &io.Tape{Input: input}

	emu.Program = nil
	emu.Rom.Data = nil
	for value := range tape.Receive() {
		if emu.Rom.Send(value) != nil {
			break
		}
	}

	err = emu.Reset()
	if err != nil {
		return
	}

	err = tape.Err()

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// LineNo returns the source line number of the instruction at 'addr',
// or 0 if unknown.
func (emu *Emulator) LineNo(addr int) int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(addr)
	if dbg.Listing == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	defer func() {
		if err != nil {
			addr := emu.Cpu.Addr
			if errors.Is(err, cpu.ErrPcBounds) || errors.Is(err, ErrTickLimit) {
				addr = pc
			}
			err = &ErrRuntime{Address: addr, LineNo: emu.LineNo(addr), Err: err}
		}
	}()

	if emu.Limit > 0 && emu.Cpu.Ticks >= emu.Limit && emu.Cpu.State == cpu.STATE_RUNNING {
		emu.Cpu.State = cpu.STATE_FAULTED
		emu.Cpu.Fault = ErrTickLimit
	}

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrHalted) {
		err = nil
	}
	if err != nil {
		done = true
		return
	}

	done = emu.Cpu.State != cpu.STATE_RUNNING

	return
}

// Run ticks the emulator until it halts or faults.
func (emu *Emulator) Run() (outcome Outcome) {
	var err error
	for done := false; !done; {
		done, err = emu.Tick()
	}

	outcome = Outcome{
		State:   emu.Cpu.State,
		Address: emu.Cpu.Addr,
		Ticks:   emu.Cpu.Ticks,
		Err:     err,
	}

	var runtime *ErrRuntime
	if errors.As(err, &runtime) {
		outcome.Address = runtime.Address
	}

	if emu.Verbose {
		log.Printf("emulator: %v at %03d after %d ticks", outcome.State, outcome.Address, outcome.Ticks)
	}

	return
}
