package asm

import "strings"

// OpcodeEntry is one row of the opcode table: the byte emitted for a
// mnemonic/operand-pattern combination, or the pseudo-op marker.
type OpcodeEntry struct {
	Code byte
	// Pseudo marks a table entry that emits no opcode byte at all - the
	// "database directive" sentinel. The instruction is still recorded
	// for dispatch; only its literal operand bytes are written to ROM.
	Pseudo bool
}

func reg(base byte, n int) byte { return base + byte(n) }

// opcodeTable maps "MNEMONIC PATTERN1 PATTERN2..." to its encoding.
// Register-indexed forms (Rn) are expanded for n in 0..7 at init time.
var opcodeTable = map[string]OpcodeEntry{}

func addOp(key string, code byte) {
	opcodeTable[key] = OpcodeEntry{Code: code}
}

func addPseudo(key string) {
	opcodeTable[key] = OpcodeEntry{Pseudo: true}
}

func init() {
	// Data transfer.
	addOp("MOV A #IMMED", 0x74)
	addOp("MOV DIRECT #IMMED", 0x75)
	addOp("MOV A DIRECT", 0xE5)
	addOp("MOV DIRECT A", 0xF5)
	addOp("MOV DIRECT DIRECT", 0x85)
	for n := 0; n < 8; n++ {
		addOp("MOV R"+itoa(n)+" #IMMED", reg(0x78, n))
		addOp("MOV DIRECT R"+itoa(n), reg(0x88, n))
		addOp("MOV R"+itoa(n)+" DIRECT", reg(0xA8, n))
		addOp("MOV R"+itoa(n)+" A", reg(0xF8, n))
		addOp("MOV A R"+itoa(n), reg(0xE8, n))
		addOp("XCH A R"+itoa(n), reg(0xC8, n))
	}
	addOp("XCH A DIRECT", 0xC5)
	addOp("SWAP A", 0xC4)

	// Arithmetic.
	addOp("ADD A #IMMED", 0x24)
	addOp("ADD A DIRECT", 0x25)
	addOp("SUBB A #IMMED", 0x94)
	addOp("SUBB A DIRECT", 0x95)
	addOp("INC A", 0x04)
	addOp("INC DIRECT", 0x05)
	addOp("DEC A", 0x14)
	addOp("DEC DIRECT", 0x15)
	for n := 0; n < 8; n++ {
		addOp("ADD A R"+itoa(n), reg(0x28, n))
		addOp("SUBB A R"+itoa(n), reg(0x98, n))
		addOp("INC R"+itoa(n), reg(0x08, n))
		addOp("DEC R"+itoa(n), reg(0x18, n))
	}

	// Logic.
	addOp("ANL A #IMMED", 0x54)
	addOp("ANL A DIRECT", 0x55)
	addOp("ANL DIRECT A", 0x52)
	addOp("ANL DIRECT #IMMED", 0x53)
	addOp("ORL A #IMMED", 0x44)
	addOp("ORL A DIRECT", 0x45)
	addOp("ORL DIRECT A", 0x42)
	addOp("ORL DIRECT #IMMED", 0x43)
	addOp("XRL A #IMMED", 0x64)
	addOp("XRL A DIRECT", 0x65)
	addOp("XRL DIRECT A", 0x62)
	addOp("XRL DIRECT #IMMED", 0x63)
	addOp("RL A", 0x23)
	addOp("RR A", 0x03)

	// Bit / stack.
	addOp("SETB C", 0xD3)
	addOp("SETB BIT", 0xD2)
	addOp("PUSH DIRECT", 0xC0)
	addOp("POP DIRECT", 0xD0)

	// Control transfer. The assembler's jump hook always reduces the
	// target label to two reserved DIRECT bytes (low, high), so every
	// jump-set mnemonic keys on "<MNEMONIC> DIRECT DIRECT".
	addOp("SJMP DIRECT DIRECT", 0x80)
	addOp("AJMP DIRECT DIRECT", 0x01)
	addOp("LJMP DIRECT DIRECT", 0x02)
	addOp("JMP DIRECT DIRECT", 0x73)
	addOp("JC DIRECT DIRECT", 0x40)
	addOp("JNC DIRECT DIRECT", 0x50)
	addOp("JZ DIRECT DIRECT", 0x60)
	addOp("JNZ DIRECT DIRECT", 0x70)
	addOp("JB DIRECT DIRECT", 0x20)
	addOp("JNB DIRECT DIRECT", 0x30)
	addOp("JBC DIRECT DIRECT", 0x10)
	addOp("DJNZ DIRECT DIRECT", 0xD5)
	addOp("CJNE DIRECT DIRECT", 0xB5)
	addOp("ACALL DIRECT DIRECT", 0x11)
	addOp("LCALL DIRECT DIRECT", 0x12)
	addOp("RET", 0x22)
	addOp("RETI", 0x32)

	// Assembler directives. ORG never reaches this table (handled before
	// opcode lookup, see assembler.go); DB is the pseudo "database" entry
	// that reserves a literal byte without emitting an opcode.
	addPseudo("DB #IMMED")
	addPseudo("DB DIRECT")
}

func itoa(n int) string {
	return string(rune('0' + n))
}

// lookupOpcode builds the "MNEMONIC PATTERN..." key and resolves it.
func lookupOpcode(mnemonic string, operands []Operand) (OpcodeEntry, string, bool) {
	parts := make([]string, 0, len(operands)+1)
	parts = append(parts, strings.ToUpper(mnemonic))
	for _, op := range operands {
		parts = append(parts, op.Pattern)
	}
	key := strings.Join(parts, " ")
	entry, ok := opcodeTable[key]
	return entry, key, ok
}
