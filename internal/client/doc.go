// Package client is the MICO API service. Reads return a Watch bound to the
// resource's stream in the cache registry: the watch first yields the cached
// snapshot, if any, and then the result of the fetch it started. Writes push
// the written resource into its stream and re-fetch the lists that contain it
// so that other open watches observe the change.
//
//	reg := cache.NewRegistry()
//	defer reg.Close()
//
//	c := client.New(tr, reg)
//	w := c.Services(ctx)
//	defer w.Close()
//	services, err := w.Next(ctx)
package client
