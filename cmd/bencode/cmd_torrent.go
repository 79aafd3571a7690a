package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"bencodec/cmd/pkg/bencode"
	"bencodec/cmd/pkg/metainfo"
)

func newTorrentCmd(opts *rootOptions) *cobra.Command {
	var (
		pieces   bool
		announce bool
		port     uint16
	)

	cmd := &cobra.Command{
		Use:   "torrent [file|-]",
		Short: "Summarize a .torrent metainfo file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args, opts)
			if err != nil {
				return err
			}
			t, err := metainfo.Parse(data, bencode.WithMaxDepth(opts.maxDepth))
			if err != nil {
				return err
			}
			opts.logger.Debug("parsed metainfo", "name", t.Name, "pieces", len(t.Pieces))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Name:\t%s\n", t.Name)
			for _, tracker := range t.Trackers() {
				fmt.Fprintf(w, "Tracker URL:\t%s\n", tracker)
			}
			fmt.Fprintf(w, "Length:\t%s (%d bytes)\n", humanize.IBytes(uint64(t.Length)), t.Length)
			fmt.Fprintf(w, "Info Hash:\t%s\n", t.InfoHash.Hex())
			fmt.Fprintf(w, "Piece Length:\t%s\n", humanize.IBytes(uint64(t.PieceLength)))
			fmt.Fprintf(w, "Pieces:\t%s\n", humanize.Comma(int64(len(t.Pieces))))
			for _, f := range t.Files {
				fmt.Fprintf(w, "File:\t%s\t%s\n", strings.Join(f.Path, "/"), humanize.IBytes(uint64(f.Length)))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if pieces {
				fmt.Fprintln(out, "Piece Hashes:")
				for i := range t.Pieces {
					fmt.Fprintln(out, t.PieceHashHex(i))
				}
			}
			if announce {
				a := metainfo.NewAnnounce(t, metainfo.NewPeerID())
				a.Port = port
				for _, tracker := range t.Trackers() {
					u, err := a.URL(tracker)
					if err != nil {
						opts.logger.Info("skipping tracker", "url", tracker, "error", err)
						continue
					}
					fmt.Fprintln(out, u)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&pieces, "pieces", false, "list every piece hash")
	cmd.Flags().BoolVar(&announce, "announce-url", false, "print the first announce request URL for each HTTP tracker")
	cmd.Flags().Uint16Var(&port, "port", metainfo.DefaultPort, "listen port advertised in announce URLs")
	return cmd
}

func newPeersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peers [file|-]",
		Short: "List the peers in a tracker announce response",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args, opts)
			if err != nil {
				return err
			}
			resp, err := metainfo.ParseTrackerResponse(data, bencode.WithMaxDepth(opts.maxDepth))
			if errors.Is(err, metainfo.ErrTrackerFailure) {
				return fmt.Errorf("tracker: %s", resp.FailureReason)
			}
			if err != nil {
				return err
			}
			if resp.WarningMessage != "" {
				opts.logger.Warn("tracker warning", "message", resp.WarningMessage)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "interval %ds, %d seeders, %d leechers\n", resp.Interval, resp.Complete, resp.Incomplete)
			for _, p := range resp.Peers {
				fmt.Fprintln(out, p.Addr)
			}
			return nil
		},
	}
	return cmd
}
