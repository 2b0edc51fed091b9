package callback

import (
	"embed"
	"io/fs"
)

//go:embed schema/*
var embeddedSchema embed.FS

// SchemaFS exposes the bundled declaration so callers can inspect or override
// it with schema.LoadFS.
func SchemaFS() fs.FS {
	sub, err := fs.Sub(embeddedSchema, "schema")
	if err != nil {
		// the embed directive guarantees the directory exists
		panic(err)
	}
	return sub
}
