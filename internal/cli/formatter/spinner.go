package formatter

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// StartSpinner animates message on w until the returned stop function is
// called. stop clears the line and may be called more than once.
func StartSpinner(w io.Writer, message string) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		spin(ctx, w, spinner.Dot, message)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}

func spin(ctx context.Context, w io.Writer, s spinner.Spinner, message string) {
	ticker := time.NewTicker(s.FPS)
	defer ticker.Stop()
	for i := 0; ; i++ {
		fmt.Fprintf(w, "\r  %s %s", StylePurple.Render(s.Frames[i%len(s.Frames)]), Dim(message))
		select {
		case <-ctx.Done():
			fmt.Fprint(w, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}
