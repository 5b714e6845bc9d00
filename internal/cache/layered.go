package cache

import (
	"errors"
	"time"
)

// LayeredCache reads through layers in order and promotes hits to the faster ones
type LayeredCache struct {
	layers []Cache
}

// NewLayeredCache stacks caches, fastest first. Nil layers are skipped.
func NewLayeredCache(layers ...Cache) *LayeredCache {
	c := &LayeredCache{}
	for _, l := range layers {
		if l != nil {
			c.layers = append(c.layers, l)
		}
	}
	return c
}

// NewDefaultCache builds the memory + disk stack, with an optional redis layer in between
func NewDefaultCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration, shared *RedisCache) *LayeredCache {
	layers := []Cache{NewMemoryCache(memoryTTL, 10*time.Minute)}
	if shared != nil {
		layers = append(layers, shared)
	}
	if diskDir != "" {
		layers = append(layers, NewDiskCache(diskDir, diskTTL))
	}
	return NewLayeredCache(layers...)
}

// Get returns the first hit and copies it into every faster layer
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	for i, layer := range c.layers {
		val, found := layer.Get(key)
		if !found {
			continue
		}
		for j := 0; j < i; j++ {
			_ = c.layers[j].Set(key, val, 0)
		}
		return val, true
	}
	return nil, false
}

// Set stores the value in every layer and reports every failure
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	var errs []error
	for _, layer := range c.layers {
		if err := layer.Set(key, value, ttl); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Delete removes a value from every layer
func (c *LayeredCache) Delete(key string) error {
	var errs []error
	for _, layer := range c.layers {
		if err := layer.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Clear empties every layer
func (c *LayeredCache) Clear() error {
	var errs []error
	for _, layer := range c.layers {
		if err := layer.Clear(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
