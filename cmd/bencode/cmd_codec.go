package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bencodec/cmd/pkg/bencode"
	"bencodec/cmd/pkg/compression"
	"bencodec/cmd/pkg/digest"
	"bencodec/cmd/pkg/transcode"
)

const (
	formatDisplay = "display"
	formatYAML    = "yaml"
	formatCBOR    = "cbor"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show [file|-]",
		Short: "Decode a value and print it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, _, err := decodeInput(cmd, args, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format {
			case formatDisplay:
				_, err = fmt.Fprintln(out, bencode.Display(item))
			case formatYAML:
				var doc []byte
				if doc, err = transcode.YAML(item); err == nil {
					_, err = out.Write(doc)
				}
			case formatCBOR:
				var diag string
				if diag, err = transcode.Diagnose(item); err == nil {
					_, err = fmt.Fprintln(out, diag)
				}
			default:
				err = fmt.Errorf("unknown format %q (want %s, %s or %s)", format, formatDisplay, formatYAML, formatCBOR)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatDisplay, "output format: display, yaml or cbor")
	return cmd
}

func newCanonCmd(opts *rootOptions) *cobra.Command {
	var output, compress string

	cmd := &cobra.Command{
		Use:   "canon [file|-]",
		Short: "Re-encode a value with sorted, deduplicated dictionary keys",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, trailing, err := decodeInput(cmd, args, opts)
			if err != nil {
				return err
			}
			if trailing > 0 {
				return fmt.Errorf("%d trailing bytes after value", trailing)
			}
			codec, err := compression.ParseCodec(compress)
			if err != nil {
				return err
			}

			if output == "" || output == stdinArg {
				return writeCanonical(cmd.OutOrStdout(), item, codec)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := writeCanonical(f, item, codec); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().StringVar(&compress, "compress", "none", "pack the output: none, zstd or lz4")
	return cmd
}

func writeCanonical(w io.Writer, item bencode.Item, codec compression.Codec) error {
	if codec == compression.None {
		if err := bencode.Write(bencode.NewWriterSink(w), item); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	data, err := bencode.Encode(item)
	if err != nil {
		return err
	}
	if data, err = compression.Compress(data, codec); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func newHashCmd(opts *rootOptions) *cobra.Command {
	var (
		algo string
		info bool
	)

	cmd := &cobra.Command{
		Use:   "hash [file|-]",
		Short: "Digest the canonical encoding of a value",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := digest.ParseAlgorithm(algo)
			if err != nil {
				return err
			}
			item, _, err := decodeInput(cmd, args, opts)
			if err != nil {
				return err
			}
			if info {
				root, ok := item.(*bencode.Dictionary)
				if !ok {
					return errors.New("--info needs a dictionary root")
				}
				sub, ok := root.GetString("info")
				if !ok {
					return errors.New("no info key in root dictionary")
				}
				item = sub
			}
			sum, err := digest.SumItem(alg, item)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), sum)
			return err
		},
	}
	cmd.Flags().StringVarP(&algo, "algo", "a", string(digest.SHA1), "hash algorithm: sha1, sha256 or blake3")
	cmd.Flags().BoolVar(&info, "info", false, "hash only the info dictionary (the torrent info-hash)")
	return cmd
}
