package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/repomanager"
)

// cascadeStep is one ordered statement of a cascade delete. No foreign key
// cascades, so children must go before their parents.
type cascadeStep struct {
	name string
	run  func(ctx context.Context, id string) error
}

func runCascade(ctx context.Context, id string, steps []cascadeStep) error {
	for _, st := range steps {
		if err := st.run(ctx, id); err != nil {
			return fmt.Errorf("%s: %w", st.name, err)
		}
	}
	return nil
}

// diaryCascade removes a diary and everything below it. Image keys are
// queued for object removal before their rows go away.
func diaryCascade(m repomanager.RepositoryManager, tx dbx.DBTX) []cascadeStep {
	return []cascadeStep{
		{"editor states", m.EditorStates(tx).DeleteByDiary},
		{"post images", m.Posts(tx).DeleteImageLinksByDiary},
		{"posts", m.Posts(tx).DeleteByDiary},
		{"enqueue objects", m.PendingObjects(tx).EnqueueForDiary},
		{"geo data", m.Images(tx).DeleteGeoDataByDiary},
		{"image keys", m.Images(tx).DeleteByDiary},
		{"entries", m.Entries(tx).DeleteByDiary},
		{"diary users", m.Diaries(tx).DeleteUsers},
		{"diary", m.Diaries(tx).Delete},
	}
}

func entryCascade(m repomanager.RepositoryManager, tx dbx.DBTX) []cascadeStep {
	return []cascadeStep{
		{"editor state", m.EditorStates(tx).DeleteByEntry},
		{"post images", m.Posts(tx).DeleteImageLinksByEntry},
		{"posts", m.Posts(tx).DeleteByEntry},
		{"enqueue objects", m.PendingObjects(tx).EnqueueForEntry},
		{"geo data", m.Images(tx).DeleteGeoDataByEntry},
		{"image keys", m.Images(tx).DeleteByEntry},
		{"entry", m.Entries(tx).Delete},
	}
}
