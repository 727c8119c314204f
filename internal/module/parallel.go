package module

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// LoadMany loads every path in canons concurrently, returning the modules
// in the same order as canons (spec.md §5 permits but does not require
// parallel import loading). Read/Parse run off the main goroutine; mutation
// of the loader's own cache is serialized through mu so concurrent loads of
// distinct paths never race on byPath/modules.
func (l *Loader) LoadMany(canons []string, isEntry func(int) bool) ([]*Module, error) {
	mods := make([]*Module, len(canons))
	var mu sync.Mutex
	var g errgroup.Group
	for i, canon := range canons {
		i, canon := i, canon
		g.Go(func() error {
			text, err := l.Read(canon)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if id, ok := l.byPath[canon]; ok {
				mods[i] = l.Get(id)
				return nil
			}
			fileID := l.FileSet.AddText(canon, text)
			f, _ := l.FileSet.Get(fileID)
			builder, fileNode, parseErr := l.Parse(f)
			if parseErr != nil {
				return parseErr
			}
			mod, err := l.commit(canon, fileID, builder, fileNode, isEntry != nil && isEntry(i))
			if err != nil {
				return err
			}
			mods[i] = mod
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return mods, nil
}
