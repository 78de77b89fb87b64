package quantum

import (
	"fmt"
	"strings"
)

// QASMBuilder builds OpenQASM 2.0 circuits
type QASMBuilder struct {
	version     string
	includeStmt string
	registers   []string
	gates       []string
}

// NewQASMBuilder creates an empty OpenQASM circuit builder
func NewQASMBuilder() *QASMBuilder {
	return &QASMBuilder{
		version:     "OPENQASM 2.0;",
		includeStmt: "include \"qelib1.inc\";",
		registers:   make([]string, 0),
		gates:       make([]string, 0),
	}
}

// AddQuantumRegister declares a named quantum register
func (b *QASMBuilder) AddQuantumRegister(name string, size int) {
	b.registers = append(b.registers, fmt.Sprintf("qreg %s[%d];", name, size))
}

// AddClassicalRegister declares a named classical register
func (b *QASMBuilder) AddClassicalRegister(name string, size int) {
	b.registers = append(b.registers, fmt.Sprintf("creg %s[%d];", name, size))
}

// AddGate adds a quantum operation; a trailing semicolon is added if missing
func (b *QASMBuilder) AddGate(gate string) {
	if !strings.HasSuffix(gate, ";") {
		gate += ";"
	}
	b.gates = append(b.gates, gate)
}

// AddConditional adds an operation guarded by creg == value
func (b *QASMBuilder) AddConditional(creg string, value int, gate string) {
	b.AddGate(fmt.Sprintf("if(%s==%d) %s", creg, value, gate))
}

// AddMeasurement measures qubit into classical bit
func (b *QASMBuilder) AddMeasurement(qubit, classical string) {
	b.AddGate(fmt.Sprintf("measure %s -> %s", qubit, classical))
}

// Build generates the complete QASM circuit string
func (b *QASMBuilder) Build() string {
	var circuit strings.Builder

	circuit.WriteString(b.version + "\n")
	circuit.WriteString(b.includeStmt + "\n")
	circuit.WriteString("\n")

	for _, reg := range b.registers {
		circuit.WriteString(reg + "\n")
	}
	circuit.WriteString("\n")

	for _, gate := range b.gates {
		circuit.WriteString(gate + "\n")
	}

	return circuit.String()
}

// Stabilizer is a CSS stabilizer generator of the 15-qubit Reed-Muller code
type Stabilizer struct {
	Pauli   string
	Support []int
}

// DistillationDataQubits is the number of noisy input states consumed per output
const DistillationDataQubits = 15

// ReedMullerStabilizers returns the 14 generators checked by the 15-to-1
// protocol: 4 X-type and 10 Z-type
func ReedMullerStabilizers() []Stabilizer {
	x1 := []int{7, 8, 9, 10, 11, 12, 13, 14}
	x2 := []int{3, 4, 5, 6, 11, 12, 13, 14}
	x3 := []int{1, 2, 5, 6, 9, 10, 13, 14}
	x4 := []int{0, 2, 4, 6, 8, 10, 12, 14}

	return []Stabilizer{
		{"X", x1},
		{"X", x2},
		{"X", x3},
		{"X", x4},
		{"Z", x1},
		{"Z", x2},
		{"Z", x3},
		{"Z", x4},
		{"Z", []int{11, 12, 13, 14}},
		{"Z", []int{9, 10, 13, 14}},
		{"Z", []int{8, 10, 12, 14}},
		{"Z", []int{5, 6, 13, 14}},
		{"Z", []int{4, 6, 12, 14}},
		{"Z", []int{2, 6, 10, 14}},
	}
}

// BuildDistillationCircuit creates the 15-to-1 distillation circuit.
// Data qubits are prepared with H·T, every stabilizer is measured through a
// single reset ancilla into syn[k], and the logical output is measured in the
// requested basis only when every syndrome bit is zero.
func BuildDistillationCircuit(basis Basis) (string, error) {
	if basis != XBasis && basis != YBasis && basis != ZBasis {
		return "", fmt.Errorf("unsupported output basis %v", basis)
	}

	stabilizers := ReedMullerStabilizers()
	builder := NewQASMBuilder()
	builder.AddQuantumRegister("f", DistillationDataQubits)
	builder.AddQuantumRegister("a", 1)
	builder.AddClassicalRegister("syn", len(stabilizers))
	builder.AddClassicalRegister("out", 1)

	for i := 0; i < DistillationDataQubits; i++ {
		builder.AddGate(fmt.Sprintf("h f[%d]", i))
		builder.AddGate(fmt.Sprintf("t f[%d]", i))
	}

	for k, stab := range stabilizers {
		builder.AddGate("reset a[0]")
		switch stab.Pauli {
		case "Z":
			for _, j := range stab.Support {
				builder.AddGate(fmt.Sprintf("cx f[%d],a[0]", j))
			}
		case "X":
			builder.AddGate("h a[0]")
			for _, j := range stab.Support {
				builder.AddGate(fmt.Sprintf("cx a[0],f[%d]", j))
			}
			builder.AddGate("h a[0]")
		default:
			return "", fmt.Errorf("stabilizer %d has unsupported Pauli %q", k, stab.Pauli)
		}
		builder.AddMeasurement("a[0]", fmt.Sprintf("syn[%d]", k))
	}

	// Transversal basis change, then logical Z as the parity of all data qubits
	for i := 0; i < DistillationDataQubits; i++ {
		switch basis {
		case XBasis:
			builder.AddConditional("syn", 0, fmt.Sprintf("h f[%d]", i))
		case YBasis:
			builder.AddConditional("syn", 0, fmt.Sprintf("sdg f[%d]", i))
			builder.AddConditional("syn", 0, fmt.Sprintf("h f[%d]", i))
		}
	}
	builder.AddConditional("syn", 0, "reset a[0]")
	for j := 0; j < DistillationDataQubits; j++ {
		builder.AddConditional("syn", 0, fmt.Sprintf("cx f[%d],a[0]", j))
	}
	builder.AddConditional("syn", 0, "measure a[0] -> out[0]")

	return builder.Build(), nil
}
