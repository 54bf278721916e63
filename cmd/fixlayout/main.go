package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/fixcodec/codec"
	"github.com/wippyai/fixcodec/inspect"
	"github.com/wippyai/fixcodec/schema"
	"github.com/wippyai/fixcodec/witschema"
)

func main() {
	var (
		jsonFile    = flag.String("json", "", "Path to a WIT resolve in JSON form (- for stdin)")
		typeName    = flag.String("type", "", "Only show this type")
		hexData     = flag.String("hex", "", "Decode these bytes against -type")
		verbose     = flag.Bool("v", false, "Log codec compilation")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *jsonFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: fixlayout -json <resolve.json> [-type name] [-hex bytes]")
		fmt.Fprintln(os.Stderr, "       fixlayout -json <resolve.json> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			codec.SetLogger(l)
			defer l.Sync()
		}
	}

	types, err := loadTypes(*jsonFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*jsonFile, types); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(types, *typeName, *hexData); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// typeInfo is one named WIT type and its fixed schema, if it has one.
type typeInfo struct {
	err    error
	schema schema.Type
	name   string
	size   int
}

func loadTypes(path string) ([]typeInfo, error) {
	res, err := wit.LoadJSON(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	var types []typeInfo
	for _, td := range res.TypeDefs {
		if td.Name == nil {
			continue
		}
		ti := typeInfo{name: *td.Name}
		ti.schema, ti.err = witschema.FromWIT(td)
		if ti.err == nil {
			ti.size, ti.err = codec.SchemaSize(ti.schema)
		}
		types = append(types, ti)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].name < types[j].name })
	return types, nil
}

func run(types []typeInfo, typeName, hexData string) error {
	if hexData != "" && typeName == "" {
		return fmt.Errorf("-hex needs -type")
	}

	for _, ti := range types {
		if typeName != "" && ti.name != typeName {
			continue
		}
		if ti.err != nil {
			fmt.Printf("%s: no fixed layout: %v\n\n", ti.name, ti.err)
			continue
		}

		fmt.Printf("%s (%d bytes)\n  %s\n", ti.name, ti.size, schema.String(ti.schema))
		entries, err := describe(ti.schema, hexData)
		if err != nil {
			return fmt.Errorf("%s: %w", ti.name, err)
		}
		fmt.Print(formatEntries(entries, hexData != ""))
		fmt.Println()
	}
	return nil
}

func describe(t schema.Type, hexData string) ([]inspect.Entry, error) {
	if hexData == "" {
		return inspect.Layout(t)
	}
	data, err := parseHex(hexData)
	if err != nil {
		return nil, err
	}
	return inspect.Dump(t, data)
}

// parseHex accepts "0a0b", "0a 0b" and "0x0a,0x0b".
func parseHex(s string) ([]byte, error) {
	s = strings.NewReplacer("0x", "", "0X", "", ",", "", " ", "", "\t", "").Replace(s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("parse hex: %w", err)
	}
	return data, nil
}

func formatEntries(entries []inspect.Entry, withValues bool) string {
	var b strings.Builder
	for _, e := range entries {
		path := e.Path
		if path == "" {
			path = "."
		}
		fmt.Fprintf(&b, "  %5d %4d  %-20s %s", e.Offset, e.Size, path, e.Type)
		if withValues {
			fmt.Fprintf(&b, " = %s", e.Value)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
