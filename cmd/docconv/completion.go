package main

import (
	"errors"
	"fmt"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// completion scripts cover commands and convert flags; values complete
// as files through the shell's defaults.
const bashCompletion = `_docconv() {
    local cur prev commands
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    commands="convert doctor completion version help"

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "${commands}" -- "${cur}") )
        return 0
    fi

    case "${prev}" in
        --type|-T)
            COMPREPLY=( $(compgen -W "docx2pdf doc2pdf odt2pdf docx2odt docx2md md2docx md2html html2md html2pdf" -- "${cur}") )
            return 0
            ;;
        --input|-i|--output|-o|--config|-c)
            COMPREPLY=( $(compgen -f -- "${cur}") )
            return 0
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "--type --input --output --timeout --exclude --config --workers --quiet --verbose --json" -- "${cur}") )
    fi
    return 0
}
complete -F _docconv docconv
`

const zshCompletion = `#compdef docconv

_docconv() {
    local -a commands
    commands=(
        'convert:Convert a document to another format'
        'doctor:Check which conversion backends are usable'
        'completion:Generate shell completion script'
        'version:Show version information'
        'help:Show help for a command'
    )

    if (( CURRENT == 2 )); then
        _describe 'command' commands
        return
    fi

    case "${words[2]}" in
        convert)
            _arguments \
                '(-T --type)'{-T,--type}'[conversion type]:type:(docx2pdf doc2pdf odt2pdf docx2odt docx2md md2docx md2html html2md html2pdf)' \
                '(-i --input)'{-i,--input}'[input path]:file:_files' \
                '(-o --output)'{-o,--output}'[output path]:file:_files' \
                '(-t --timeout)'{-t,--timeout}'[per-backend timeout]' \
                '(-x --exclude)'{-x,--exclude}'[backend to skip]' \
                '(-c --config)'{-c,--config}'[config file]:file:_files' \
                '(-w --workers)'{-w,--workers}'[parallel workers]' \
                '(-q --quiet)'{-q,--quiet}'[only show errors]' \
                '(-v --verbose)'{-v,--verbose}'[show attempt log]'
            ;;
        doctor)
            _arguments '--json[machine-readable output]'
            ;;
    esac
}

_docconv "$@"
`

// runCompletionCmd prints the completion script for the requested shell.
func runCompletionCmd(args []string, env *Environment) int {
	if len(args) != 1 {
		printCompletionUsage(env.Stderr)
		return ExitUsage
	}

	switch args[0] {
	case "bash":
		fmt.Fprint(env.Stdout, bashCompletion)
	case "zsh":
		fmt.Fprint(env.Stdout, zshCompletion)
	default:
		fmt.Fprintln(env.Stderr, fmt.Errorf("%w: %q (supported: bash, zsh)", ErrUnsupportedShell, args[0]))
		return ExitUsage
	}
	return ExitSuccess
}
