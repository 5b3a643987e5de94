// Package dataopt normalizes, validates and re-serializes loosely-structured
// records such as VM resource descriptions, operation results and session
// summaries.
//
// A Pipeline runs one record through four stages:
//
//   - validate against a named schema from the registry (see package schema)
//   - normalize keys to snake_case and trim strings (see package normalize)
//   - annotate with a _metadata block, optionally checksummed
//   - package the outcome as a Result
//
// Encoding into JSON, YAML, XML, CSV, HTML, MessagePack or a compressed form
// is handled by package codec and exposed through Pipeline.Encode, Save and
// Persist.
//
// Design policy:
//   - Keep the public API in the root package; put helpers under internal/.
//   - Failures of Run and LoadAndRun become structured Results, never panics.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	p, err := dataopt.New(dataopt.DefaultConfig())
//	res := p.Run(ctx, record, schema.VMwareResource)
//	if res.Success {
//		ok := p.Persist(ctx, res.Data, "out/vm.yaml", codec.YAML)
//	}
package dataopt
