package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/alexisbeaulieu97/dsxform/internal/config"
	"github.com/alexisbeaulieu97/dsxform/internal/transform"
)

var termIsTerminal = func(fd int) bool {
	return term.IsTerminal(fd)
}

// resolveEnvironment maps the configured mode onto the capability gate's
// environment. In auto mode a local interactive terminal counts as desktop;
// remote shells and pipes count as web since local paths of the user are not
// reachable from there.
func resolveEnvironment(mode string) (transform.StaticEnvironment, error) {
	switch mode {
	case config.EnvironmentDesktop:
		return transform.StaticEnvironment{Desktop: true}, nil
	case config.EnvironmentWeb:
		return transform.StaticEnvironment{Desktop: false}, nil
	case "", config.EnvironmentAuto:
		local := os.Getenv("SSH_CONNECTION") == "" && os.Getenv("SSH_TTY") == ""
		return transform.StaticEnvironment{Desktop: local && termIsTerminal(int(os.Stdin.Fd()))}, nil
	default:
		return transform.StaticEnvironment{}, fmt.Errorf("unknown environment %q (expected auto, desktop or web)", mode)
	}
}

func supportsUnicode(writer any) bool {
	if file, ok := writer.(*os.File); ok {
		return termIsTerminal(int(file.Fd()))
	}
	return false
}
