package catalog

// DialectABaseURL is the fixed service root of the bare task id dialect.
const DialectABaseURL = "https://api.midjourneyapi.io/v2"

var (
	dialectA = newCatalog("dialect-a", DialectABaseURL, []string{FieldTaskID},
		OperationSpec{
			Name:     Imagine,
			Path:     "/imagine",
			Encoding: JSON,
			Required: []string{FieldPrompt},
			Optional: []string{FieldMode, FieldCallbackURL},
		},
		OperationSpec{
			Name:         Upscale,
			Path:         "/upscale",
			Encoding:     JSON,
			Required:     []string{FieldTaskID, FieldPosition},
			HandleFields: []string{FieldTaskID},
			Immediate:    true,
		},
		OperationSpec{
			Name:         Variations,
			Path:         "/variations",
			Encoding:     JSON,
			Required:     []string{FieldTaskID, FieldPosition},
			Optional:     []string{FieldCallbackURL},
			HandleFields: []string{FieldTaskID},
		},
		OperationSpec{
			Name:      Upload,
			Path:      "/upload",
			Encoding:  Multipart,
			Immediate: true,
			MinFiles:  1,
			MaxFiles:  1,
		},
		OperationSpec{
			Name:         Seed,
			Path:         "/seed",
			Encoding:     JSON,
			Required:     []string{FieldTaskID},
			Optional:     []string{FieldCallbackURL},
			HandleFields: []string{FieldTaskID},
		},
		OperationSpec{
			Name:     Describe,
			Path:     "/describe",
			Encoding: Multipart,
			Optional: []string{FieldCallbackURL},
			MinFiles: 1,
			MaxFiles: 1,
		},
		OperationSpec{
			Name:     Blend,
			Path:     "/blend",
			Encoding: Multipart,
			Optional: []string{FieldDimension, FieldCallbackURL},
			MinFiles: 2,
		},
		OperationSpec{
			Name:      FaceSwap,
			Path:      "/faceswap",
			Encoding:  JSON,
			Required:  []string{FieldTargetImageURL, FieldFaceImageURL},
			Immediate: true,
		},
		OperationSpec{
			Name:         Result,
			Path:         "/result",
			Encoding:     JSON,
			Required:     []string{FieldTaskID},
			HandleFields: []string{FieldTaskID},
			Immediate:    true,
		},
	)

	dialectB = newCatalog("dialect-b", "", []string{FieldResultID},
		OperationSpec{
			Name:     Imagine,
			Path:     "/imagine",
			Encoding: JSON,
			Required: []string{FieldPrompt},
			Optional: []string{FieldCallbackURL},
		},
		OperationSpec{
			Name:         Upscale,
			Path:         "/upscale",
			Encoding:     JSON,
			Required:     []string{FieldMessageID, FieldJobID, FieldPosition},
			Optional:     []string{FieldCallbackURL},
			HandleFields: []string{FieldMessageID, FieldJobID},
		},
		OperationSpec{
			Name:         Variations,
			Path:         "/variations",
			Encoding:     JSON,
			Required:     []string{FieldMessageID, FieldJobID, FieldPosition},
			Optional:     []string{FieldCallbackURL},
			HandleFields: []string{FieldMessageID, FieldJobID},
		},
		OperationSpec{
			Name:         Remix,
			Path:         "/remix",
			Encoding:     JSON,
			Required:     []string{FieldMessageID, FieldJobID, FieldPrompt},
			Optional:     []string{FieldCallbackURL},
			HandleFields: []string{FieldMessageID, FieldJobID},
		},
		OperationSpec{
			Name:      Upload,
			Path:      "/upload",
			Encoding:  Multipart,
			Immediate: true,
			MinFiles:  1,
			MaxFiles:  1,
		},
		OperationSpec{
			Name:         Seed,
			Path:         "/seed",
			Encoding:     JSON,
			Required:     []string{FieldMessageID, FieldJobID},
			Optional:     []string{FieldCallbackURL},
			HandleFields: []string{FieldMessageID, FieldJobID},
		},
		OperationSpec{
			Name:     Describe,
			Path:     "/describe",
			Encoding: Multipart,
			Optional: []string{FieldCallbackURL},
			MinFiles: 1,
			MaxFiles: 1,
		},
		OperationSpec{
			Name:     Blend,
			Path:     "/blend",
			Encoding: Multipart,
			Optional: []string{FieldDimension, FieldCallbackURL},
			MinFiles: 2,
		},
		OperationSpec{
			Name:         Result,
			Path:         "/result",
			Encoding:     JSON,
			Required:     []string{FieldResultID},
			HandleFields: []string{FieldResultID},
			Immediate:    true,
		},
	)
)

// DialectA returns the bare task id catalog: requests key on taskId,
// upscale answers immediately and faceswap is available.
func DialectA() *Catalog { return dialectA }

// DialectB returns the message/job pair catalog: downstream operations key
// on messageId and jobId, results are fetched by resultId and remix is
// available.
func DialectB() *Catalog { return dialectB }
