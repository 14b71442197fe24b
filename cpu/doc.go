// Package cpu implements the processor of the accumulator machine.
//
// The DataPath holds data memory, the accumulator (ACC), the data address
// register (DA), the data register (DR), the ALU latch, and the input/output
// channel. Its signal methods are the only way to change that state, and
// each models a single register transfer.
//
// The Cpu is the control unit. It fetches the instruction at the program
// counter, runs the operand fetch microcode for the addressing mode, then
// sequences the data path signals for the opcode, counting one tick per
// register transfer group.
package cpu
