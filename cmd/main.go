package main

import (
	"bufio"
	"fmt"
	"os"

	"go.kaleido.dev/pkg"
)

func main() {
	session := kaleido.NewSession()

	in := bufio.NewScanner(os.Stdin)
	fmt.Print("ready> ")
	for in.Scan() {
		val, warnings, err := session.Eval(in.Text())

		for _, w := range warnings {
			fmt.Println("warning:", w)
		}

		switch {
		case err != nil:
			fmt.Println("error:", err)
		case val != nil:
			fmt.Println("generated", val.Ident())
		}

		fmt.Print("ready> ")
	}

	fmt.Println()
	fmt.Println(session.Dump())
}
