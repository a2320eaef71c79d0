package fetchqueue

import (
	"context"

	"github.com/danielledeleo/ayatembed/quran"
	"go.uber.org/multierr"
)

// FetchAll fetches keys through the queue and returns the verses in the
// order of keys, whatever order the workers finish in. If any fetch fails
// the whole set is discarded and the combined error returned.
func (q *Queue) FetchAll(ctx context.Context, tier Tier, keys []quran.VerseKey) ([]*quran.Verse, error) {
	chans := make([]chan Result, len(keys))
	for i, key := range keys {
		chans[i] = make(chan Result, 1)
		if err := q.Submit(Job{Key: key, Tier: tier}, chans[i]); err != nil {
			return nil, err
		}
	}

	verses := make([]*quran.Verse, len(keys))
	var errs error
	for i, ch := range chans {
		select {
		case res := <-ch:
			if res.Err != nil {
				errs = multierr.Append(errs, res.Err)
				continue
			}
			verses[i] = res.Verse
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if errs != nil {
		return nil, errs
	}
	return verses, nil
}
