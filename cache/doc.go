// Package cache provides a small generic LRU cache.
//
// The compositor keeps cover-scaled renders of recently shown frames here so
// that scrubbing back and forth over the same stretch of a sequence replays
// pixels instead of rescaling them:
//
//	c := cache.New[key, *image.RGBA](8)
//	c.Set(k, img)
//	img, ok := c.Get(k)
//
// # Thread Safety
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
