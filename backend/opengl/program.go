//go:build !nogl

package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/g3d/gpucore"
	"github.com/gogpu/g3d/internal/glsl"
)

// program is a linked GL program and its active uniforms by base name.
type program struct {
	id    uint32
	slots map[string]glsl.Slot
}

func compile(kind uint32, source string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csrc, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		log := shaderLog(shader, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile: %s", log)
	}
	return shader, nil
}

func shaderLog(obj uint32, iv func(uint32, uint32, *int32), info func(uint32, int32, *int32, *uint8)) string {
	var n int32
	iv(obj, gl.INFO_LOG_LENGTH, &n)
	if n <= 1 {
		return "no log"
	}
	buf := make([]byte, n)
	info(obj, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

func link(src gpucore.ShaderSource) (*program, error) {
	vs, err := compile(gl.VERTEX_SHADER, src.Vertex)
	if err != nil {
		return nil, fmt.Errorf("opengl: program %q vertex %w", src.Label, err)
	}
	defer gl.DeleteShader(vs)
	fs, err := compile(gl.FRAGMENT_SHADER, src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("opengl: program %q fragment %w", src.Label, err)
	}
	defer gl.DeleteShader(fs)

	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fs)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		log := shaderLog(id, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("opengl: program %q link: %s", src.Label, log)
	}
	return &program{id: id, slots: activeUniforms(id)}, nil
}

func activeUniforms(id uint32) map[string]glsl.Slot {
	var count, maxLen int32
	gl.GetProgramiv(id, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(id, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)
	slots := make(map[string]glsl.Slot, count)
	if maxLen <= 0 {
		return slots
	}
	name := make([]byte, maxLen)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var typ uint32
		gl.GetActiveUniform(id, uint32(i), maxLen, &length, &size, &typ, &name[0])
		base, _ := glsl.SplitIndex(string(name[:length]))
		slots[base] = glsl.Slot{
			Location: gl.GetUniformLocation(id, gl.Str(base+"\x00")),
			Type:     typ,
			Size:     size,
		}
	}
	return slots
}

// set uploads u, reporting whether the program has such a uniform.
func (p *program) set(u glsl.Uniform) bool {
	base, index := glsl.SplitIndex(u.Name)
	slot, ok := p.slots[base]
	if !ok {
		return false
	}
	slot = slot.Element(index)
	loc := slot.Location + int32(index)

	if u.Ints != nil {
		count := slot.Count(len(u.Ints))
		if count == 0 {
			return false
		}
		switch n, _ := glsl.Components(slot.Type); n {
		case 1:
			gl.ProgramUniform1iv(p.id, loc, count, &u.Ints[0])
		case 2:
			gl.ProgramUniform2iv(p.id, loc, count, &u.Ints[0])
		case 3:
			gl.ProgramUniform3iv(p.id, loc, count, &u.Ints[0])
		case 4:
			gl.ProgramUniform4iv(p.id, loc, count, &u.Ints[0])
		default:
			return false
		}
		return true
	}

	count := slot.Count(len(u.Floats))
	if count == 0 {
		return false
	}
	v := &u.Floats[0]
	switch slot.Type {
	case glsl.TypeFloat:
		gl.ProgramUniform1fv(p.id, loc, count, v)
	case glsl.TypeFloatVec2:
		gl.ProgramUniform2fv(p.id, loc, count, v)
	case glsl.TypeFloatVec3:
		gl.ProgramUniform3fv(p.id, loc, count, v)
	case glsl.TypeFloatVec4:
		gl.ProgramUniform4fv(p.id, loc, count, v)
	case glsl.TypeFloatMat3:
		gl.ProgramUniformMatrix3fv(p.id, loc, count, false, v)
	case glsl.TypeFloatMat4:
		gl.ProgramUniformMatrix4fv(p.id, loc, count, false, v)
	default:
		return false
	}
	return true
}
