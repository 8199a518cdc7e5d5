// Package imagine is a client for an asynchronous image generation
// service.
//
// Submissions (generation, variations, seeds, descriptions, blends and,
// depending on the dialect, upscales and remixes) return a handle at once;
// the rendered output is picked up later with [Client.FetchResult]. Polling
// cadence is left to the caller. Uploads, face swaps and, in Dialect A,
// upscales answer with their final result directly.
//
// The same client speaks either wire dialect; pick one with [WithDialect].
// Every argument is checked before anything is sent, and every failure is
// one of [ErrInvalidConfiguration], [ErrInvalidArgument],
// [ErrUnsupportedOperation], a [*RemoteError] or a [*TransportError].
//
//	c, err := imagine.New(imagine.Config{AuthToken: token})
//	if err != nil {
//		return err
//	}
//	resp, err := c.SubmitGeneration(ctx, "a red dog", imagine.GenerationOptions{})
//	if err != nil {
//		return err
//	}
//	result, err := c.FetchResult(ctx, resp.Handle)
package imagine
