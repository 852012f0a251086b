package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glyph-dev/glyph/internal/crawler"
	"github.com/glyph-dev/glyph/internal/output"
	"github.com/glyph-dev/glyph/internal/watch"
	"github.com/spf13/cobra"
)

const watchTick = 50 * time.Millisecond

type watchSession struct {
	out      io.Writer
	errOut   io.Writer
	crawler  *crawler.Crawler
	settings *settings
	format   output.Format
	top      int
	slot     *watch.Slot
	status   *statusLine

	digest string
	files  []crawler.FileSummary
	runs   int
}

func RunWatch(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveRootArg(args)
	if err != nil {
		return err
	}
	format, err := ParseOutputFormat(cmd)
	if err != nil {
		return err
	}
	top, err := OptionalIntFlag(cmd, "top", 5)
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd, rootPath)
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := newWatchSession(cmd.OutOrStdout(), cmd.ErrOrStderr(), s, format, top)
	defer session.slot.Close()
	return session.run(ctx, watchTick)
}

func newWatchSession(out, errOut io.Writer, s *settings, format output.Format, top int) *watchSession {
	c := crawler.New(nil)
	return &watchSession{
		out:      out,
		errOut:   errOut,
		crawler:  c,
		settings: s,
		format:   format,
		top:      top,
		status:   newStatusLine(errOut, format != output.FormatText),
		slot: watch.NewSlot(watch.Options{
			Debounce:   s.Debounce,
			Extensions: c.Registry().SupportedExtensions(),
			Ignore:     s.Ignore,
		}),
	}
}

func (w *watchSession) run(ctx context.Context, tick time.Duration) error {
	if err := w.refresh(); err != nil {
		return err
	}

	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.status.Clear()
			return nil
		case now := <-ticker.C:
			if !w.slot.Poll(now) {
				continue
			}
			if err := w.refresh(); err != nil {
				return err
			}
		}
	}
}

// refresh re-crawls, re-arms the trigger and prints the report when the
// graph changed.
func (w *watchSession) refresh() error {
	res := w.crawler.Run(w.settings.request())
	if err := w.slot.Replace(w.settings.Root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.settings.Root, err)
	}
	w.runs++

	rep := output.BuildReport(res, w.top)
	changed := ChangedFiles(w.files, res.Files)
	first := w.digest == ""
	if rep.Digest == w.digest {
		slog.Debug("watch.unchanged", "root", res.Root, "digest", rep.Digest)
		w.status.Update("watching %s (%d files, %d crawls)", res.Root, len(res.Files), w.runs)
		return nil
	}
	w.digest = rep.Digest
	w.files = res.Files

	w.status.Clear()
	if !first && w.format == output.FormatText && len(changed) > 0 {
		fmt.Fprintf(w.out, "changed files (%d): %s\n", len(changed), SummarizePaths(changed, 8))
	}
	ReportParseIssues(w.errOut, res.Issues)
	if err := output.WriteReport(w.out, w.format, rep); err != nil {
		return err
	}
	w.status.Update("watching %s (%d files, %d crawls)", res.Root, len(res.Files), w.runs)
	return nil
}
