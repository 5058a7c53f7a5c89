package pixelart

import (
	"context"
	"errors"
	"sync"

	"github.com/RuralAir/pixelart/partition"
	"github.com/RuralAir/pixelart/rectrun"
	"go.uber.org/zap"
)

func (c *Compressor) emitLabels(ctx context.Context, b *Bitmap) (<-chan rune, <-chan error, error) {
	out := make(chan rune)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, label := range b.Labels() {
			select {
			case out <- label:
			case <-ctx.Done():
				errc <- errors.New("label emission cancelled")
				return
			}
		}
	}()
	return out, errc, nil
}

func (c *Compressor) labelWorker(ctx context.Context, wg *sync.WaitGroup, b *Bitmap, in <-chan rune, results chan<- []rectrun.Rect) (<-chan error, error) {
	errc := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(errc)
		for label := range in {
			m, offset := b.Mask(label)
			rects, stats := partition.Decompose(m)

			c.logger.Debug("Decomposed label",
				zap.String("label", string(label)),
				zap.Int("cells", m.Count()),
				zap.Int("verticals", stats.Verticals),
				zap.Int("horizontals", stats.Horizontals),
				zap.Int("kept", stats.Kept),
				zap.Int("patched", stats.Patched),
				zap.Int("rects", stats.Rects))

			out := make([]rectrun.Rect, len(rects))
			for i, r := range rects {
				r = r.Add(offset)
				out[i] = rectrun.Rect{
					X:     r.Min.X,
					Y:     r.Min.Y,
					W:     r.Dx(),
					H:     r.Dy(),
					Label: label,
				}
			}

			select {
			case results <- out:
			case <-ctx.Done():
				errc <- errors.New("decomposition cancelled")
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// decompose runs every label of b through a pool of workers and returns the
// rectangles of all labels in bitmap coordinates.
func (c *Compressor) decompose(ctx context.Context, b *Bitmap) ([]rectrun.Rect, error) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	labels, errc, err := c.emitLabels(ctx, b)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	results := make(chan []rectrun.Rect)
	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		errc, err := c.labelWorker(ctx, &wg, b, labels, results)
		if err != nil {
			return nil, err
		}
		errcList = append(errcList, errc)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var rects []rectrun.Rect
	for r := range results {
		rects = append(rects, r...)
	}

	if err := waitForPipeline(errcList...); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return rects, nil
}
