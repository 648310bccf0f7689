// Package errs defines the tagged error used across the engine: every failure
// carries a Kind, and every Kind belongs to a Category, so a top-level handler
// can print "[CATEGORY]: Kind" without knowing where the error came from.
package errs

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

type Category int

const (
	CategoryUnknown Category = iota
	CategoryFile
	CategoryEffect
	CategoryTexture
	CategoryMesh
	CategoryScene
	CategoryRender
	CategoryInit
)

func (c Category) String() string {
	switch c {
	case CategoryFile:
		return "FILE_ERR"
	case CategoryEffect:
		return "FX_ERR"
	case CategoryTexture:
		return "TEX_ERR"
	case CategoryMesh:
		return "MESH_ERR"
	case CategoryScene:
		return "SCENE_ERR"
	case CategoryRender:
		return "RENDER_ERR"
	case CategoryInit:
		return "INIT_ERR"
	default:
		return "ERR"
	}
}

type Kind int

const (
	KindUnknown Kind = iota

	CouldNotOpenFile

	EffectCreateFail
	InvalidEffect
	LayoutCreateFail
	InvalidTechnique
	InvalidWorldViewProjection
	InvalidWorldMatrix
	InvalidCameraOrigin
	InvalidDiffuseMap
	InvalidNormalMap
	InvalidSpecularMap
	InvalidGlossinessMap
	InvalidSampler

	ResourceCreateFail
	ResourceViewCreateFail

	MeshCreateFail
	BufferCreateFail
	BufferIsEmpty

	SceneIsEmpty

	MeshRenderError

	DeviceCreateFail
	SwapChainCreateFail
	DepthStencilCreateFail
	DepthStencilViewCreateFail
	GetRenderTargetBufferFail
	RenderTargetViewCreateFail
)

var kindNames = map[Kind]string{
	CouldNotOpenFile:           "CouldNotOpenFile",
	EffectCreateFail:           "CreateFail",
	InvalidEffect:              "InvalidEffect",
	LayoutCreateFail:           "LayoutCreateFail",
	InvalidTechnique:           "InvalidTechnique",
	InvalidWorldViewProjection: "InvalidWorldViewProjection",
	InvalidWorldMatrix:         "InvalidWorldMatrix",
	InvalidCameraOrigin:        "InvalidCameraOrigin",
	InvalidDiffuseMap:          "InvalidDiffuseMap",
	InvalidNormalMap:           "InvalidNormalMap",
	InvalidSpecularMap:         "InvalidSpecularMap",
	InvalidGlossinessMap:       "InvalidGlossinessMap",
	InvalidSampler:             "InvalidSampler",
	ResourceCreateFail:         "ResourceCreateFail",
	ResourceViewCreateFail:     "ResourceViewCreateFail",
	MeshCreateFail:             "CreateFail",
	BufferCreateFail:           "BufferCreateFail",
	BufferIsEmpty:              "BufferIsEmpty",
	SceneIsEmpty:               "SceneIsEmpty",
	MeshRenderError:            "MeshRenderError",
	DeviceCreateFail:           "DeviceCreateFail",
	SwapChainCreateFail:        "SwapChainCreateFail",
	DepthStencilCreateFail:     "DepthStencilCreateFail",
	DepthStencilViewCreateFail: "DepthStencilViewCreateFail",
	GetRenderTargetBufferFail:  "GetRenderTargetBufferFail",
	RenderTargetViewCreateFail: "RenderTargetViewCreateFail",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Error"
}

// Category returns the category k belongs to.
func (k Kind) Category() Category {
	switch {
	case k == CouldNotOpenFile:
		return CategoryFile
	case k >= EffectCreateFail && k <= InvalidSampler:
		return CategoryEffect
	case k == ResourceCreateFail || k == ResourceViewCreateFail:
		return CategoryTexture
	case k >= MeshCreateFail && k <= BufferIsEmpty:
		return CategoryMesh
	case k == SceneIsEmpty:
		return CategoryScene
	case k == MeshRenderError:
		return CategoryRender
	case k >= DeviceCreateFail && k <= RenderTargetViewCreateFail:
		return CategoryInit
	default:
		return CategoryUnknown
	}
}

// Error is the engine's tagged error.
type Error struct {
	Kind  Kind
	Msg   string
	cause error
}

func (e *Error) Category() Category { return e.Kind.Category() }

func (e *Error) Error() string {
	s := fmt.Sprintf("[%s]: %s", e.Kind.Category(), e.Kind)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.cause != nil {
		s += ": " + e.cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error of the same Kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrBufferIsEmpty = &Error{Kind: BufferIsEmpty}
	ErrSceneIsEmpty  = &Error{Kind: SceneIsEmpty}
)

// New returns a stack-annotated error of the given kind.
func New(kind Kind, format string, args ...any) error {
	return errors.WithStackDepth(&Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}, 1)
}

// Wrap tags cause with kind. A nil cause still yields an error.
func Wrap(cause error, kind Kind, format string, args ...any) error {
	return errors.WithStackDepth(&Error{Kind: kind, Msg: fmt.Sprintf(format, args...), cause: cause}, 1)
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool { return KindOf(err) == kind }

// CategoryOf returns the Category of err, CategoryUnknown for foreign errors.
func CategoryOf(err error) Category { return KindOf(err).Category() }
