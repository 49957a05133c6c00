package fat12

//go:generate go run ./cmd/generate -o testdata/floppy.img
