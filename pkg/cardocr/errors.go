package cardocr

import "errors"

// ErrEngineUnavailable indicates the OCR engine itself cannot be reached or
// initialized. It is fatal for the whole request: no other configuration
// would succeed either.
var ErrEngineUnavailable = errors.New("ocr engine unavailable")

// ErrNoLanguages is returned when the engine answered the capability query
// but reported zero installed languages. Distinct from ErrEngineUnavailable.
var ErrNoLanguages = errors.New("ocr engine reports no languages")

// ErrNoText is returned when no variant x config combination produced any
// usable text.
var ErrNoText = errors.New("no text recognized")

// ErrImageTooSmall is returned for inputs below the 100x100 pixel gate.
var ErrImageTooSmall = errors.New("image too small")
