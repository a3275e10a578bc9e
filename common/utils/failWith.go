package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/ttacon/chalk"
)

var version = "dev"

func GetVersion() string {
	return version
}

// FormatChain renders err and every wrapped cause, outermost first.
func FormatChain(err error) string {
	lines := strings.Split(err.Error(), ": ")
	cause := errors.Cause(err)

	var b strings.Builder
	for i, line := range lines {
		b.WriteString(strings.Repeat("  ", i))
		b.WriteString("└ ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	if cause != nil && cause != err {
		b.WriteString(fmt.Sprintf("cause: %T\n", cause))
	}

	return b.String()
}

func FailWith(err error) {
	command := strings.Join(os.Args, " ")

	fmt.Println("")
	fmt.Println(chalk.Red.Color("❌  An error occurred."))
	fmt.Println("")
	fmt.Println("command: " + command + " (version " + GetVersion() + ")")

	fmt.Print(FormatChain(err))

	fmt.Println("")

	os.Exit(1)
}

func WarnWith(err error) {
	fmt.Println("")
	fmt.Println(chalk.Yellow.Color("⚠️  Warning"))
	fmt.Println("")

	fmt.Print(FormatChain(err))

	fmt.Println("")
}
