package app

import (
	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/hclarchive"
)

// Format registers the openers of one archive file format.
type Format func(r *archive.Registry)

// coreFormats is the definitive list of archive formats compiled into the
// abcscene binary.
var coreFormats = []Format{
	hclarchive.Register,
}
