// Command bencode is a toolbox for bencoded files such as .torrent
// metainfo and tracker responses.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
