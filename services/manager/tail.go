package manager

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// Monitor streams the growing log file to Out until the context is
// cancelled (the operator's interrupt signal). A missing log file is waited
// on rather than reported, so `monitor` can be started before `start`.
func (s Service) Monitor(ctx context.Context) int {
	path := s.Layout.Log()
	fmt.Fprintf(s.Out, "following %s (Ctrl+C to stop)\n", path)

	err := followFile(ctx, path, s.Out)
	if err != nil && ctx.Err() == nil {
		fmt.Fprintf(s.Out, "stopped following log: %v\n", err)
	}
	return 0
}

const tailPollInterval = time.Millisecond * 500

func followFile(ctx context.Context, path string, out io.Writer) error {
	var f *os.File
	var offset int64
	defer func() {
		if f != nil {
			f.Close()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(tailPollInterval):
		}

		if f == nil {
			var err error
			f, err = os.Open(path)
			if err != nil {
				continue
			}
			// start from the end, the backlog is history not news
			offset, err = f.Seek(0, io.SeekEnd)
			if err != nil {
				return err
			}
		}

		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			// rotated or cleaned away, reopen on next round
			f.Close()
			f = nil
			continue
		}
		if err != nil {
			return err
		}
		if info.Size() < offset {
			// truncated, start over from the top
			offset = 0
			if _, err := f.Seek(0, io.SeekStart); err != nil {
				return err
			}
		}

		n, err := io.Copy(out, f)
		if err != nil {
			return err
		}
		offset += n
	}
}
