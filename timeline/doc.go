// Package timeline turns normalized execution histories into a renderable
// timeline model.
//
// The pipeline is a chain of pure stages: history records are normalized into
// typed events, events are paired into task spans, contributor executions are
// correlated into the parent's span tree, contributor spans are filtered and
// optionally aggregated, spans are packed into non-overlapping display lanes,
// and task names are ranked by their total contribution to the elapsed time.
// Every stage consumes the immutable output of the previous one, so a build is
// deterministic for identical inputs regardless of how the histories were
// fetched.
package timeline
