// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/beevik/prefixtree/v2"
)

// settings holds the host variables changed with the set command. Every
// field is a variable: the doc tag describes it and the optional min tag
// bounds an integer variable from below (default 0).
type settings struct {
	MemDumpBytes    int    `doc:"default number of memory bytes to dump" min:"1"`
	DisasmLines     int    `doc:"default number of lines to disassemble" min:"1"`
	MaxStepLines    int    `doc:"max lines to disassemble when stepping"`
	StepLimit       int    `doc:"max instructions per run (0 = unlimited)"`
	EchoLog         bool   `doc:"echo log entries as they are written"`
	NextDisasmAddr  uint16 `doc:"address of next disassembly"`
	NextMemDumpAddr uint16 `doc:"address of next memory dump"`
}

func newSettings() *settings {
	return &settings{
		MemDumpBytes: 64,
		DisasmLines:  10,
		MaxStepLines: 20,
	}
}

// A variable describes one settings field and how its values are parsed
// and displayed.
type variable struct {
	name   string
	field  int
	doc    string
	min    int
	parse  func(v *variable, s string) (reflect.Value, error)
	format func(v reflect.Value) string
}

var (
	variables    []*variable
	variableTree = prefixtree.New[*variable]()
)

func init() {
	t := reflect.TypeOf(settings{})
	for i := range t.NumField() {
		f := t.Field(i)
		v := &variable{name: f.Name, field: i, doc: f.Tag.Get("doc")}
		if m, ok := f.Tag.Lookup("min"); ok {
			v.min, _ = strconv.Atoi(m)
		}

		switch f.Type.Kind() {
		case reflect.Bool:
			v.parse, v.format = parseBoolVar, formatBoolVar
		case reflect.Int:
			v.parse, v.format = parseIntVar, formatIntVar
		case reflect.Uint16:
			v.parse, v.format = parseAddrVar, formatAddrVar
		default:
			panic("host: unsupported setting type " + f.Type.String())
		}

		variables = append(variables, v)
		variableTree.Add(strings.ToLower(f.Name), v)
	}
}

func parseBoolVar(v *variable, s string) (reflect.Value, error) {
	b, err := stringToBool(s)
	return reflect.ValueOf(b), err
}

func parseIntVar(v *variable, s string) (reflect.Value, error) {
	n, err := parseNumber(s)
	if err != nil {
		return reflect.Value{}, err
	}
	if n < v.min {
		return reflect.Value{}, fmt.Errorf("%s must be at least %d", v.name, v.min)
	}
	return reflect.ValueOf(n), nil
}

func parseAddrVar(v *variable, s string) (reflect.Value, error) {
	a, err := parseAddr(s)
	return reflect.ValueOf(a), err
}

func formatBoolVar(v reflect.Value) string { return strconv.FormatBool(v.Bool()) }
func formatIntVar(v reflect.Value) string  { return strconv.FormatInt(v.Int(), 10) }
func formatAddrVar(v reflect.Value) string { return fmt.Sprintf("$%04X", v.Uint()) }

// Display writes every variable with its current value and description.
func (s *settings) Display(w io.Writer) {
	value := reflect.ValueOf(s).Elem()
	for _, v := range variables {
		fmt.Fprintf(w, "    %-16s %-8s (%s)\n", v.name, v.format(value.Field(v.field)), v.doc)
	}
}

// Set parses value and assigns it to the variable whose name is uniquely
// identified by the key prefix.
func (s *settings) Set(key, value string) error {
	v, err := variableTree.FindValue(strings.ToLower(key))
	switch {
	case errors.Is(err, prefixtree.ErrPrefixAmbiguous):
		return fmt.Errorf("setting '%s' is ambiguous", key)
	case err != nil:
		return fmt.Errorf("setting '%s' not found", key)
	}

	x, err := v.parse(v, value)
	if err != nil {
		return err
	}
	reflect.ValueOf(s).Elem().Field(v.field).Set(x)
	return nil
}
