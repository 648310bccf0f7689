package glbackend

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/gl/v3.3-core/gl"
)

var stageNames = map[uint32]string{
	gl.VERTEX_SHADER:   "vertex",
	gl.FRAGMENT_SHADER: "fragment",
}

// infoLog reads a shader or program log through the matching pair of GL
// getters.
func infoLog(name uint32, getiv func(uint32, uint32, *int32), getLog func(uint32, int32, *int32, *uint8)) string {
	var n int32
	getiv(name, gl.INFO_LOG_LENGTH, &n)
	if n <= 0 {
		return ""
	}
	buf := make([]uint8, n)
	getLog(name, n, nil, &buf[0])
	return strings.TrimSpace(strings.TrimRight(string(buf), "\x00"))
}

func compileStage(stage uint32, src string) (uint32, error) {
	sh := gl.CreateShader(stage)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(sh, 1, csrc, nil)
	free()
	gl.CompileShader(sh)

	var ok int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &ok)
	if ok != gl.FALSE {
		return sh, nil
	}
	msg := infoLog(sh, gl.GetShaderiv, gl.GetShaderInfoLog)
	gl.DeleteShader(sh)
	return 0, errors.Newf("%s stage: %s", stageNames[stage], msg)
}

// makeProgram compiles and links one pass. The returned error carries the
// driver diagnostic verbatim.
func makeProgram(vertex, fragment string) (uint32, error) {
	var stages []uint32
	defer func() {
		for _, sh := range stages {
			gl.DeleteShader(sh)
		}
	}()
	for _, s := range []struct {
		stage uint32
		src   string
	}{{gl.VERTEX_SHADER, vertex}, {gl.FRAGMENT_SHADER, fragment}} {
		sh, err := compileStage(s.stage, s.src)
		if err != nil {
			return 0, err
		}
		stages = append(stages, sh)
	}

	prog := gl.CreateProgram()
	for _, sh := range stages {
		gl.AttachShader(prog, sh)
	}
	gl.LinkProgram(prog)

	var ok int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(prog, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(prog)
		return 0, errors.Newf("link: %s", msg)
	}
	return prog, nil
}
