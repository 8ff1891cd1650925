// Package api holds the wire model of the MICO backend: hypermedia links and
// collection envelopes, the polymorphic resource reference (Ref) and the
// domain objects (Application, Service, ServiceInterface, ApplicationStatus).
//
// The backend follows the HAL convention. Single resources carry their own
// location in `_links.self.href`; collections wrap their items in
// `_embedded.<name>List`. Envelope.DecodeList makes the list-name probing
// an explicit "try key A, else key B" rule.
//
// A Ref is a tagged union. Ref.Resolve reduces every variant to the raw path
// or URL it designates; turning that into a request URL or a cache key is the
// job of the transport and cache packages.
package api
