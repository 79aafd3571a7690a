package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"bencodec/cmd/pkg/bencode"
	"bencodec/cmd/pkg/compression"
)

// stdinArg names standard input as the input file.
const stdinArg = "-"

type rootOptions struct {
	verbose  bool
	maxDepth int
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "bencode",
		Short: "Inspect and rewrite bencoded data",
		Long: `bencode reads the serialization format used by BitTorrent
metainfo files and tracker responses. Every command reads a file
argument, or standard input when the argument is "-" or missing.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			bencode.SetLogger(opts.logger)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log decoder activity to stderr")
	rootCmd.PersistentFlags().IntVar(&opts.maxDepth, "max-depth", bencode.DefaultMaxDepth, "maximum container nesting, 0 for unlimited")

	rootCmd.AddCommand(
		newShowCmd(opts),
		newCanonCmd(opts),
		newHashCmd(opts),
		newTorrentCmd(opts),
		newPeersCmd(opts),
	)
	return rootCmd
}

// readInput returns the bytes of the single optional file argument,
// unpacked if it is a zstd or lz4 frame.
func readInput(cmd *cobra.Command, args []string, opts *rootOptions) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == stdinArg {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	data, codec, err := compression.Decompress(data)
	if err != nil {
		return nil, err
	}
	if codec != compression.None {
		opts.logger.Debug("unpacked input", "compression", codec.String(), "size", len(data))
	}
	return data, nil
}

// decodeInput decodes the first value of the input and reports how
// many bytes follow it.
func decodeInput(cmd *cobra.Command, args []string, opts *rootOptions) (bencode.Item, int, error) {
	data, err := readInput(cmd, args, opts)
	if err != nil {
		return nil, 0, err
	}
	src := bencode.NewBytesSource(data)
	item, err := bencode.NewDecoder(src, bencode.WithMaxDepth(opts.maxDepth)).Decode()
	if err != nil {
		return nil, 0, err
	}
	trailing := len(src.Remaining())
	if trailing > 0 {
		opts.logger.Warn("trailing bytes after value", "offset", src.Offset(), "count", trailing)
	}
	return item, trailing, nil
}
