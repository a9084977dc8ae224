// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/mattn/go-isatty"
	"github.com/naoina/toml"
	"github.com/probechain/go-tiny/lang/frontend"
	"github.com/probechain/go-tiny/lang/parser"
	"github.com/probechain/go-tiny/log"
	"gopkg.in/urfave/cli.v1"
)

var (
	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "[FILE]",
		Category:    "MISCELLANEOUS COMMANDS",
		Description: `The dumpconfig command shows configuration values, optionally writing them to FILE.`,
	}

	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: 3,
	}
	noColorFlag = cli.BoolFlag{
		Name:  "nocolor",
		Usage: "Disable colored diagnostics and logs",
	}
	foldCaseFlag = cli.BoolFlag{
		Name:  "foldcase",
		Usage: "Compare identifiers case-insensitively",
	}
	maxErrorsFlag = cli.IntFlag{
		Name:  "maxerrors",
		Usage: "Maximum number of diagnostics printed per file (0 = unlimited)",
	}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type outputConfig struct {
	Color          bool
	MaxDiagnostics int
}

type cacheConfig struct {
	Size int // parse results kept, negative disables the cache
}

type tinycConfig struct {
	Parser parser.Config
	Output outputConfig
	Cache  cacheConfig
}

func defaultConfig() tinycConfig {
	return tinycConfig{
		Parser: parser.DefaultConfig,
		Output: outputConfig{Color: true, MaxDiagnostics: 50},
		Cache:  cacheConfig{Size: frontend.DefaultCacheSize},
	}
}

func loadConfig(file string, cfg *tinycConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig loads defaults, then the config file, then applies flags.
func makeConfig(ctx *cli.Context) (tinycConfig, error) {
	cfg := defaultConfig()

	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
		log.Debug("Loaded configuration", "file", file)
	}

	if ctx.GlobalBool(noColorFlag.Name) {
		cfg.Output.Color = false
	}
	if ctx.GlobalIsSet(foldCaseFlag.Name) {
		cfg.Parser.FoldCase = ctx.GlobalBool(foldCaseFlag.Name)
	}
	if ctx.GlobalIsSet(maxErrorsFlag.Name) {
		cfg.Output.MaxDiagnostics = ctx.GlobalInt(maxErrorsFlag.Name)
	}
	if cfg.Parser.Buckets <= 0 {
		return cfg, fmt.Errorf("invalid bucket count %d", cfg.Parser.Buckets)
	}
	return cfg, nil
}

// useColor reports whether diagnostics on stdout should be colored.
func (cfg *tinycConfig) useColor() bool {
	fd := os.Stdout.Fd()
	return cfg.Output.Color && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}

	dump := os.Stdout
	if ctx.NArg() > 0 {
		dump, err = os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer dump.Close()
	}
	_, err = dump.Write(out)
	return err
}
