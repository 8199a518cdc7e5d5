package imagine

import (
	"context"
	"strings"

	"github.com/adamwoolhether/imagine/catalog"
	"github.com/adamwoolhether/imagine/payload"
	"github.com/adamwoolhether/imagine/task"
	"github.com/adamwoolhether/imagine/validate"
)

// FilePart is a caller-owned file to upload. The client reads Content once
// while encoding the request and keeps no reference to it afterwards.
type FilePart = payload.FilePart

// Generation speed modes accepted by Dialect A.
const (
	ModeRelax = "relax"
	ModeFast  = "fast"
	ModeTurbo = "turbo"
)

// Blend output dimensions.
const (
	DimensionSquare    = "Square"
	DimensionPortrait  = "Portrait"
	DimensionLandscape = "Landscape"
)

// GenerationOptions are the optional fields of [Client.SubmitGeneration].
// Mode is only understood by Dialect A; when empty the service picks its
// own default.
type GenerationOptions struct {
	Mode        string `json:"mode" validate:"omitempty,oneof=relax fast turbo"`
	CallbackURL string `json:"callbackURL" validate:"omitempty,url"`
}

// UpscaleOptions are the optional fields of [Client.SubmitUpscale].
// CallbackURL is only understood by Dialect B, whose upscale is deferred.
type UpscaleOptions struct {
	CallbackURL string `json:"callbackURL" validate:"omitempty,url"`
}

// VariationOptions are the optional fields of [Client.SubmitVariation].
type VariationOptions struct {
	CallbackURL string `json:"callbackURL" validate:"omitempty,url"`
}

// RemixOptions carries the new prompt a remix is rendered with.
type RemixOptions struct {
	Prompt      string `json:"prompt" validate:"required"`
	CallbackURL string `json:"callbackURL" validate:"omitempty,url"`
}

// SeedOptions are the optional fields of [Client.FetchSeed].
type SeedOptions struct {
	CallbackURL string `json:"callbackURL" validate:"omitempty,url"`
}

// DescribeOptions are the optional fields of [Client.Describe].
type DescribeOptions struct {
	CallbackURL string `json:"callbackURL" validate:"omitempty,url"`
}

// BlendOptions are the optional fields of [Client.Blend].
type BlendOptions struct {
	CallbackURL string `json:"callbackURL" validate:"omitempty,url"`
}

type generationInput struct {
	Prompt string `json:"prompt" validate:"required"`
	GenerationOptions
}

type positionInput struct {
	Position int `json:"position" validate:"min=1,max=4"`
}

type blendInput struct {
	Dimension string `json:"dimension" validate:"omitempty,oneof=Square Portrait Landscape"`
	BlendOptions
}

type faceSwapInput struct {
	TargetImageURL string `json:"targetImageURL" validate:"required,url"`
	SourceImageURL string `json:"faceImageURL" validate:"required,url"`
}

func check(op catalog.Operation, val any) error {
	if err := validate.Check(val); err != nil {
		return invalidArgument(op, err)
	}
	return nil
}

// checked validates in and, only when it passes, runs the call. A failed
// check is still reported to the observer.
func (c *Client) checked(ctx context.Context, op catalog.Operation, in request, inputs ...any) (Response, error) {
	for _, v := range inputs {
		if err := check(op, v); err != nil {
			c.rejected(ctx, op, err)
			return Response{}, err
		}
	}
	return c.call(ctx, op, in)
}

// SubmitGeneration starts rendering an image grid from prompt. The returned
// response carries the handle to poll with [Client.FetchResult].
func (c *Client) SubmitGeneration(ctx context.Context, prompt string, opts GenerationOptions) (Response, error) {
	in := generationInput{Prompt: strings.TrimSpace(prompt), GenerationOptions: opts}

	return c.checked(ctx, catalog.Imagine, request{
		fields: map[string]any{
			catalog.FieldPrompt:      in.Prompt,
			catalog.FieldMode:        in.Mode,
			catalog.FieldCallbackURL: in.CallbackURL,
		},
	}, in)
}

// SubmitUpscale enlarges one image of a grid. position picks the image,
// 1 to 4 reading left to right, top to bottom. In Dialect A the response
// is already final; in Dialect B it carries a handle to poll.
func (c *Client) SubmitUpscale(ctx context.Context, h task.Handle, position int, opts UpscaleOptions) (Response, error) {
	return c.checked(ctx, catalog.Upscale, request{
		handle: h,
		fields: map[string]any{
			catalog.FieldPosition:    position,
			catalog.FieldCallbackURL: opts.CallbackURL,
		},
	}, positionInput{Position: position}, opts)
}

// SubmitVariation renders variations of one image of a grid.
func (c *Client) SubmitVariation(ctx context.Context, h task.Handle, position int, opts VariationOptions) (Response, error) {
	return c.checked(ctx, catalog.Variations, request{
		handle: h,
		fields: map[string]any{
			catalog.FieldPosition:    position,
			catalog.FieldCallbackURL: opts.CallbackURL,
		},
	}, positionInput{Position: position}, opts)
}

// SubmitRemix re-renders a job with a new prompt. Dialect B only.
func (c *Client) SubmitRemix(ctx context.Context, h task.Handle, opts RemixOptions) (Response, error) {
	if !c.Supports(catalog.Remix) {
		_, err := c.call(ctx, catalog.Remix, request{handle: h})
		return Response{}, err
	}

	opts.Prompt = strings.TrimSpace(opts.Prompt)

	return c.checked(ctx, catalog.Remix, request{
		handle: h,
		fields: map[string]any{
			catalog.FieldPrompt:      opts.Prompt,
			catalog.FieldCallbackURL: opts.CallbackURL,
		},
	}, opts)
}

// UploadImage stores an image with the service. The response is final and
// carries the image's public URL.
func (c *Client) UploadImage(ctx context.Context, file FilePart) (Response, error) {
	return c.call(ctx, catalog.Upload, request{files: []FilePart{file}})
}

// FetchSeed asks for the seed a job was rendered with.
func (c *Client) FetchSeed(ctx context.Context, h task.Handle, opts SeedOptions) (Response, error) {
	return c.checked(ctx, catalog.Seed, request{
		handle: h,
		fields: map[string]any{catalog.FieldCallbackURL: opts.CallbackURL},
	}, opts)
}

// Describe asks the service for prompts that describe an image.
func (c *Client) Describe(ctx context.Context, file FilePart, opts DescribeOptions) (Response, error) {
	return c.checked(ctx, catalog.Describe, request{
		fields: map[string]any{catalog.FieldCallbackURL: opts.CallbackURL},
		files:  []FilePart{file},
	}, opts)
}

// Blend merges two or more images. Files are sent in the order given.
// dimension may be empty or one of the Dimension constants.
func (c *Client) Blend(ctx context.Context, files []FilePart, dimension string, opts BlendOptions) (Response, error) {
	return c.checked(ctx, catalog.Blend, request{
		fields: map[string]any{
			catalog.FieldDimension:   dimension,
			catalog.FieldCallbackURL: opts.CallbackURL,
		},
		files: files,
	}, blendInput{Dimension: dimension, BlendOptions: opts})
}

// FaceSwap puts the face found at sourceImageURL onto the image at
// targetImageURL. Dialect A only; the response is final.
func (c *Client) FaceSwap(ctx context.Context, targetImageURL, sourceImageURL string) (Response, error) {
	in := faceSwapInput{
		TargetImageURL: strings.TrimSpace(targetImageURL),
		SourceImageURL: strings.TrimSpace(sourceImageURL),
	}

	if !c.Supports(catalog.FaceSwap) {
		_, err := c.call(ctx, catalog.FaceSwap, request{})
		return Response{}, err
	}

	return c.checked(ctx, catalog.FaceSwap, request{
		fields: map[string]any{
			catalog.FieldTargetImageURL: in.TargetImageURL,
			catalog.FieldFaceImageURL:   in.SourceImageURL,
		},
	}, in)
}

// FetchResult reports the current state of the job behind h, exactly as
// the service describes it. It has no side effects and may be called any
// number of times.
func (c *Client) FetchResult(ctx context.Context, h task.Handle) (Response, error) {
	return c.call(ctx, catalog.Result, request{handle: h})
}
