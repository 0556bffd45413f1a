// Package highlight schedules redex highlight requests for an animated view
// of a term map.
//
// Selecting redexes in quick succession issues interleaved Highlight and
// Unhighlight requests. A [Queue] applies them one step at a time with a
// fixed delay between steps so that an animation can follow, and guarantees:
//
//   - pending unhighlights drain before the pending highlight, so a stream
//     of highlights never starves them;
//   - only the most recent highlight request is kept, and applying it first
//     clears the redex currently shown, so two redexes are never highlighted
//     together;
//   - Unhighlight(A) while Highlight(A) is still pending removes the pending
//     request, so the final state always matches the last request.
//
// Element ids come from a [Source], usually a *termmap.Map, and each change
// is delivered to a [Sink] as an [Event]. [State] is a Sink that keeps the
// resulting per-element colours for terminal and HTTP views.
//
// One drain loop runs at a time. It starts when a request arrives on an idle
// queue and exits when nothing is pending. Queues created with Manual set
// never start a loop; callers drive them with [Queue.Step].
package highlight
