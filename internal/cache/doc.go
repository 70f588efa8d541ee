// Package cache provides an LRU cache for blob blocks.
//
// LRUBlockCache bounds its size in bytes and, when given a
// resource.Controller, also accounts every cached byte against the
// controller's memory limit.
package cache
