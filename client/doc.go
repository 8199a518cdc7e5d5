// Package client is the transport under the imagine facade: a configurable
// HTTP client built on [net/http] that executes one encoded envelope per
// call and decodes the service's JSON answer.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithTimeout(2 * time.Minute),
//		client.WithUserAgent("myapp/1.0"),
//		client.WithThrottle(5, 2),
//	)
//
// # Executing Envelopes
//
// [Client.Execute] posts a [payload.Envelope] to a base URL joined with the
// envelope's path:
//
//	fields, err := c.Execute(ctx, baseURL, env)
//
// A non-2xx answer is returned as an [*UnexpectedStatusError]; use
// [UnexpectedStatusError.ServiceMessage] to read the service's own message.
// Nothing is retried and redirects are not followed.
package client
