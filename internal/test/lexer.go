package test

import (
	"math/rand"
	"strings"
)

const validTokens = "def;extern;fib;x;y;answer;(;);,;1;42;3.141592;0.5;<;+;-;*;# a comment\n;\n"

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}
