// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/probechain/go-tiny/lang/token"
	"github.com/probechain/go-tiny/log"
	"gopkg.in/urfave/cli.v1"
)

const (
	historyFile = ".tinyc_history"
	promptMain  = "tiny> "
	promptCont  = "....> "
)

var replCommand = cli.Command{
	Action:   replCmd,
	Name:     "repl",
	Usage:    "Parse programs typed interactively",
	Category: "SOURCE COMMANDS",
	Description: `
The repl command reads a program line by line; an empty line ends it. The
program's diagnostics and syntax tree are printed. Type :quit to leave.`,
}

func replCmd(ctx *cli.Context) error {
	s, err := makeSession(ctx)
	if err != nil {
		return err
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetWordCompleter(completeKeyword)

	if home, err := os.UserHomeDir(); err != nil {
		log.Warn("Command history disabled", "err", err)
	} else {
		histPath := filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				ln.WriteHistory(f)
				f.Close()
			} else {
				log.Warn("Failed to save command history", "file", histPath, "err", err)
			}
		}()
	}

	fmt.Fprintln(s.out, "Tiny front end. End a program with an empty line, :quit to exit.")
	for n := 1; ; n++ {
		src, ok := readProgram(ln)
		if !ok {
			fmt.Fprintln(s.out)
			return nil
		}
		switch strings.TrimSpace(src) {
		case "":
			continue
		case ":quit":
			return nil
		}
		ln.AppendHistory(strings.Replace(src, "\n", " ", -1))
		s.evalProgram(fmt.Sprintf("<repl %d>", n), src)
	}
}

// prompter reads one line of input.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// readProgram collects lines until an empty one. Ctrl-C discards a partly
// typed program; on an empty prompt it ends the session, as does the end of
// input once any pending text has been returned.
func readProgram(ln prompter) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			return "", b.Len() > 0
		case errors.Is(err, io.EOF):
			return b.String(), b.Len() > 0
		case err != nil:
			return "", false
		}
		if strings.TrimSpace(line) == "" {
			return b.String(), true
		}
		if b.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, true
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

// evalProgram parses one program and prints its diagnostics followed by the
// syntax tree.
func (s *session) evalProgram(name, src string) {
	res, err := s.compiler.Compile(name, []byte(src))
	s.printer.Print(res.File, res.Diagnostics)
	if err != nil {
		fmt.Fprintf(s.out, "fatal: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, res.Tree.String(res.Root))
}

func completeKeyword(line string, pos int) (head string, completions []string, tail string) {
	start := strings.LastIndexAny(line[:pos], " \t()") + 1
	head, word, tail := line[:start], line[start:pos], line[pos:]
	if word == "" {
		return head, nil, tail
	}
	for _, kw := range token.Keywords() {
		if strings.HasPrefix(kw, word) {
			completions = append(completions, kw)
		}
	}
	return head, completions, tail
}
