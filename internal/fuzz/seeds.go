package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10

const maxFuzzInput = 1 << 16 // 64 KiB

var builtinSeeds = []string{
	"",
	"M DEFINITIONS ::= BEGIN END",
	"M DEFINITIONS AUTOMATIC TAGS ::= BEGIN T ::= INTEGER (0..255) END",
	`M DEFINITIONS ::= BEGIN
S ::= SEQUENCE { a INTEGER OPTIONAL, b BOOLEAN DEFAULT TRUE, ..., [[ c IA5String ]] }
C ::= CHOICE { x OCTET STRING, y SEQUENCE OF S }
E ::= ENUMERATED { red(0), green, ... }
END`,
	`M DEFINITIONS ::= BEGIN
CLS ::= CLASS { &id INTEGER UNIQUE, &Type OPTIONAL } WITH SYNTAX { ID &id [TYPE &Type] }
obj CLS ::= { ID 1 TYPE BOOLEAN }
Set CLS ::= { obj | { ID 2 } , ... }
Row ::= SEQUENCE { id CLS.&id ({Set}), val CLS.&Type ({Set}{@id}) }
END`,
	`M DEFINITIONS ::= BEGIN
IMPORTS X, y FROM Other { 1 2 3 } Z FROM Third;
P{T} ::= SEQUENCE { v T }
Q ::= P{INTEGER}
v INTEGER ::= 5
END`,
	"M DEFINITIONS ::= BEGIN T ::= INTEG....ER END",
	"M DEFINITIONS ::= BEGIN -- comment\n/* block /* nested */ */ T ::= BIT STRING { a(0) } END",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext != ".asn" && ext != ".asn1" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) string {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return string(input)
}
