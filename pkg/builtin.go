package kaleido

// Builtin math functions every session starts with. They are extern
// declarations only; resolving them is the host's concern.
var builtins = []struct {
	name   string
	params []string
}{
	{"sin", []string{"x"}},
	{"cos", []string{"x"}},
	{"sqrt", []string{"x"}},
}

func defineBuiltins(b Backend) {
	for _, builtin := range builtins {
		b.Declare(builtin.name, builtin.params)
	}
}
