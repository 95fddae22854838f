// Package session holds the app-wide observable view state: who is signed
// in and which artists they have favorited. Both are thin state machines
// over the account client; the backend stays the source of truth and every
// authoritative refresh overwrites local state wholesale.
package session

import (
	"context"
	"sync"

	"artfolio/internal/notify"
	"artfolio/internal/watch"
	"artfolio/shared/go/logging"
	"artfolio/shared/go/models"
)

// FavoritesService is the slice of the account client used by the
// favorites state.
type FavoritesService interface {
	ListFavorites(ctx context.Context) ([]models.Favorite, error)
	AddFavorite(ctx context.Context, artistID string) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, artistID string) error
}

// Favorites tracks the membership set and the display list (most recent
// first). Mutations only happen on confirmed server responses; a failed
// call leaves both untouched.
type Favorites struct {
	svc FavoritesService
	bus *notify.Bus
	log *logging.Logger

	mu   sync.Mutex
	ids  map[string]struct{}
	list *watch.Value[[]models.Favorite]
}

// NewFavorites creates empty favorites state.
func NewFavorites(svc FavoritesService, bus *notify.Bus, log *logging.Logger) *Favorites {
	return &Favorites{
		svc:  svc,
		bus:  bus,
		log:  log,
		ids:  make(map[string]struct{}),
		list: watch.NewValue[[]models.Favorite](nil),
	}
}

// List exposes the display list for subscription.
func (f *Favorites) List() *watch.Value[[]models.Favorite] {
	return f.list
}

// IsFavorite reports membership for one artist.
func (f *Favorites) IsFavorite(artistID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.ids[artistID]
	return ok
}

// Toggle flips the favorite state of an artist. A favorited artist is
// removed from list and set; an unfavorited one is added, with the
// server-returned Favorite prepended. Server rejection leaves state alone.
func (f *Favorites) Toggle(ctx context.Context, artistID string) error {
	if f.IsFavorite(artistID) {
		if err := f.svc.RemoveFavorite(ctx, artistID); err != nil {
			f.log.Error(err, "remove favorite")
			return err
		}
		f.mu.Lock()
		delete(f.ids, artistID)
		f.list.Update(func(list []models.Favorite) []models.Favorite {
			kept := make([]models.Favorite, 0, len(list))
			for _, fav := range list {
				if fav.ArtistID != artistID {
					kept = append(kept, fav)
				}
			}
			return kept
		})
		f.mu.Unlock()
		f.bus.Show("Removed from favorites", true)
		return nil
	}

	favorite, err := f.svc.AddFavorite(ctx, artistID)
	if err != nil {
		f.log.Error(err, "add favorite")
		return err
	}
	f.mu.Lock()
	f.ids[artistID] = struct{}{}
	f.list.Update(func(list []models.Favorite) []models.Favorite {
		return append([]models.Favorite{*favorite}, list...)
	})
	f.mu.Unlock()
	f.bus.Show("Added to favorites", true)
	return nil
}

// Load replaces list and membership set with the server's current state.
func (f *Favorites) Load(ctx context.Context) error {
	favorites, err := f.svc.ListFavorites(ctx)
	if err != nil {
		f.log.Error(err, "load favorites")
		return err
	}

	ids := make(map[string]struct{}, len(favorites))
	for _, fav := range favorites {
		ids[fav.ArtistID] = struct{}{}
	}

	f.mu.Lock()
	f.ids = ids
	f.list.Set(favorites)
	f.mu.Unlock()
	return nil
}

// Clear empties both list and set, without any server call. Invoked on
// every transition to logged-out.
func (f *Favorites) Clear() {
	f.mu.Lock()
	f.ids = make(map[string]struct{})
	f.list.Set(nil)
	f.mu.Unlock()
}
