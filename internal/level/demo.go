package level

import (
	_ "embed"
)

//go:embed defaults/demo.yaml
var demoLevelYAML []byte

//go:embed defaults/base.yaml
var baseDefsYAML []byte

// Demo returns the bundled demo level and base mod definitions. They
// ship embedded so the CLI and tests work without any files on disk.
// Panics on parse failure: the embedded content is part of the build.
func Demo() (*Level, *Definitions) {
	l, err := ParseLevel(demoLevelYAML)
	if err != nil {
		panic("level: embedded demo level invalid: " + err.Error())
	}
	d, err := ParseDefinitions(baseDefsYAML)
	if err != nil {
		panic("level: embedded base definitions invalid: " + err.Error())
	}
	if err := d.ValidateSpawns(l); err != nil {
		panic("level: embedded demo spawns invalid: " + err.Error())
	}
	return l, d
}
