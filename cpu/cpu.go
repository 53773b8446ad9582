package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
)

// Machine geometry.
const (
	MEMORY_SIZE    = 256 // Memory cells, shared by code and data.
	REGISTER_COUNT = 4   // General purpose registers r0-r3.
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("%v", MEMORY_SIZE),
	"REGISTER_COUNT": fmt.Sprintf("%v", REGISTER_COUNT),
}

// CpuState is the run state of the fetch-decode-execute loop.
type CpuState int

//go:generate go tool stringer -linecomment -type=CpuState
const (
	STATE_RUNNING = CpuState(0) // running
	STATE_HALTED  = CpuState(1) // halted
	STATE_FAULTED = CpuState(2) // faulted
)

// Cpu is the simulation context of the decimal CPU.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   [MEMORY_SIZE]Word    // Main memory.
	Register [REGISTER_COUNT]Word // Register bank.
	Pc       int                  // Address of the next word to fetch.
	Ir       Word                 // Most recently fetched word.
	Addr     int                  // Address Ir was fetched from.

	State CpuState // Current run state.
	Fault error    // Cause of the fault, when State is STATE_FAULTED.

	Ticks int // CPU ticks counter.
}

// NewCpu creates a new, reset CPU.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears the memory and registers.
// - Zeros the statistics counters.
// - Sets the pc to 0 and the state to running.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Pc = 0
	cpu.Ir = 0
	cpu.Addr = 0
	cpu.State = STATE_RUNNING
	cpu.Fault = nil
	cpu.Ticks = 0
}

// Load fills memory from address 0 with words, up to MEMORY_SIZE.
// When fewer than MEMORY_SIZE words are available, ErrInputExhausted is
// returned with the count; the remaining cells keep their prior value.
func (cpu *Cpu) Load(words iter.Seq[Word]) (count int, err error) {
	for word := range words {
		if count == MEMORY_SIZE {
			break
		}
		cpu.Memory[count] = word
		count++
	}

	if cpu.Verbose {
		log.Printf("cpu: loaded %d cells", count)
	}

	if count < MEMORY_SIZE {
		err = ErrInputExhausted
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %03d\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %d\n", "ir", int(cpu.Ir))
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %d\n", fmt.Sprintf("r%d", n), int(val))
	}
	text += fmt.Sprintf("% 5s: %v\n", "state", cpu.State)

	return
}

// fault moves the CPU to the faulted state.
func (cpu *Cpu) fault(err error) error {
	cpu.State = STATE_FAULTED
	cpu.Fault = err
	return err
}

// FetchCode fetches and decodes the word at the pc, and advances the pc.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	if cpu.Pc < 0 || cpu.Pc >= MEMORY_SIZE {
		err = cpu.fault(ErrPcBounds)
		return
	}

	cpu.Addr = cpu.Pc
	cpu.Ir = cpu.Memory[cpu.Pc]
	cpu.Pc++

	code = Decode(cpu.Ir)

	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	switch cpu.State {
	case STATE_HALTED:
		return ErrHalted
	case STATE_FAULTED:
		return cpu.Fault
	}

	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(code)

	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = cpu.fault(errors.Join(ErrOpcode(cpu.Ir), err))
		}
	}()
	if cpu.Verbose {
		log.Printf("%03d: %v", cpu.Addr, code)
	}

	cpu.Ticks += 1

	switch code.Op {
	case OP_HALT:
		cpu.State = STATE_HALTED
	case OP_LOAD:
		err = cpu.checkRegister(code.Arg1)
		if err == nil {
			err = cpu.checkAddress(code.Arg2)
		}
		if err != nil {
			return
		}
		cpu.Register[code.Arg1] = cpu.Memory[code.Arg2]
	case OP_STORE:
		err = cpu.checkRegister(code.Arg1)
		if err == nil {
			err = cpu.checkAddress(code.Arg2)
		}
		if err != nil {
			return
		}
		cpu.Memory[code.Arg2] = cpu.Register[code.Arg1]
	case OP_ADD:
		err = cpu.checkRegister(code.Arg1)
		if err == nil {
			err = cpu.checkRegister(code.Arg2)
		}
		if err != nil {
			return
		}
		cpu.Register[code.Arg1] += cpu.Register[code.Arg2]
	case OP_JUMP:
		// Bounds are checked by the next fetch.
		cpu.Pc = code.Arg2
	default:
		err = ErrOpcodeInvalid
		return
	}

	return
}

// checkRegister verifies a register index.
func (cpu *Cpu) checkRegister(reg int) (err error) {
	if reg < 0 || reg >= REGISTER_COUNT {
		err = errors.Join(ErrOperandRange, ErrRegisterBounds)
	}
	return
}

// checkAddress verifies a memory index.
func (cpu *Cpu) checkAddress(addr int) (err error) {
	if addr < 0 || addr >= MEMORY_SIZE {
		err = errors.Join(ErrOperandRange, ErrAddressBounds)
	}
	return
}
