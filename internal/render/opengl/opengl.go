// Package opengl implements render.Backend on an OpenGL 3.3 core context.
// The context must be current on the calling thread.
package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/san-kum/flockview/internal/render"
)

type Backend struct {
	Program     uint32
	VAO         uint32
	QuadVBO     uint32
	InstanceVBO uint32
	Texture     uint32

	viewLoc     int32
	textureLoc  int32
	initialized bool
}

func New() *Backend {
	return &Backend{}
}

func (b *Backend) Setup(p render.Program) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to init opengl: %v", err)
	}

	program, err := createProgram(p.VertexSource, p.FragmentSource)
	if err != nil {
		return err
	}
	b.Program = program

	if b.viewLoc, err = uniform(program, p.ViewUniform); err != nil {
		return err
	}
	if b.textureLoc, err = uniform(program, p.TextureUniform); err != nil {
		return err
	}

	gl.GenVertexArrays(1, &b.VAO)
	gl.BindVertexArray(b.VAO)

	gl.GenBuffers(1, &b.QuadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.QuadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(p.Quad)*4, gl.Ptr(p.Quad), gl.STATIC_DRAW)

	gl.GenBuffers(1, &b.InstanceVBO)

	for _, a := range p.Attributes {
		loc, err := attribute(program, a.Name)
		if err != nil {
			return err
		}
		if a.Instanced {
			gl.BindBuffer(gl.ARRAY_BUFFER, b.InstanceVBO)
		} else {
			gl.BindBuffer(gl.ARRAY_BUFFER, b.QuadVBO)
		}
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointer(loc, int32(a.Size), gl.FLOAT, false, int32(a.Stride), gl.PtrOffset(a.Offset))
		if a.Instanced {
			gl.VertexAttribDivisor(loc, 1)
		}
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	for name, v := range p.Constants {
		loc, err := attribute(program, name)
		if err != nil {
			return err
		}
		gl.DisableVertexAttribArray(loc)
		gl.VertexAttrib1f(loc, v)
	}
	gl.BindVertexArray(0)

	gl.GenTextures(1, &b.Texture)
	gl.BindTexture(gl.TEXTURE_2D, b.Texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(p.Sprite.Width), int32(p.Sprite.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(p.Sprite.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.UseProgram(program)
	gl.Uniform1i(b.textureLoc, 0)
	gl.UseProgram(0)

	b.initialized = true
	return nil
}

func (b *Backend) Begin(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.UseProgram(b.Program)
	gl.BindVertexArray(b.VAO)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, b.Texture)
}

func (b *Backend) SetView(m [16]float32) {
	gl.UniformMatrix4fv(b.viewLoc, 1, false, &m[0])
}

func (b *Backend) UploadInstances(raw []byte) {
	gl.BindBuffer(gl.ARRAY_BUFFER, b.InstanceVBO)
	if len(raw) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STREAM_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, len(raw), gl.Ptr(raw), gl.STREAM_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (b *Backend) DrawInstanced(vertices, instances int) {
	if instances == 0 {
		return
	}
	gl.DrawArraysInstanced(gl.TRIANGLES, 0, int32(vertices), int32(instances))
}

func (b *Backend) Finish() {
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

func (b *Backend) Close() {
	if !b.initialized {
		return
	}
	gl.DeleteTextures(1, &b.Texture)
	gl.DeleteBuffers(1, &b.InstanceVBO)
	gl.DeleteBuffers(1, &b.QuadVBO)
	gl.DeleteVertexArrays(1, &b.VAO)
	gl.DeleteProgram(b.Program)
	b.initialized = false
}

func attribute(program uint32, name string) (uint32, error) {
	loc := gl.GetAttribLocation(program, gl.Str(name+"\x00"))
	if loc < 0 {
		return 0, fmt.Errorf("attribute %q not found in program", name)
	}
	return uint32(loc), nil
}

func uniform(program uint32, name string) (int32, error) {
	loc := gl.GetUniformLocation(program, gl.Str(name+"\x00"))
	if loc < 0 {
		return 0, fmt.Errorf("uniform %q not found in program", name)
	}
	return loc, nil
}

func compileShader(source string, kind uint32, stage string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, &render.ShaderError{Stage: stage + " compile", Log: strings.TrimRight(log, "\x00")}
	}
	return shader, nil
}

func createProgram(vertSource, fragSource string) (uint32, error) {
	vShader, err := compileShader(vertSource, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	fShader, err := compileShader(fragSource, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		gl.DeleteShader(vShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vShader)
	gl.AttachShader(program, fShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vShader)
	gl.DeleteShader(fShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, &render.ShaderError{Stage: "program link", Log: strings.TrimRight(log, "\x00")}
	}
	return program, nil
}
