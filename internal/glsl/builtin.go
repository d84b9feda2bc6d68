// Package glsl holds the built-in program the GL-family backends use to
// emulate fixed-function texture stages, lighting and fog, and packs
// combiner and frame state into its uniforms.
package glsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/g3d/gpucore"
)

// Profile selects the GLSL dialect.
type Profile uint8

// Dialects.
const (
	// Desktop is GLSL 4.10 core.
	Desktop Profile = iota
	// ES is GLSL ES 3.00, as spoken by WebGL 2 and OpenGL ES 3.
	ES
)

// Limits of the built-in program.
const (
	MaxStages = 2
	MaxLights = 8
)

// Vertex attribute locations of the built-in program. Hosts bind their
// vertex arrays to these.
const (
	AttribPosition = 0
	AttribNormal   = 1
	AttribColor    = 2
	AttribUV0      = 3
	AttribUV1      = 4
)

func header(p Profile) string {
	if p == ES {
		return "#version 300 es\nprecision highp float;\nprecision highp int;\n"
	}
	return "#version 410 core\n"
}

const vertexBody = `
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec4 aColor;
layout(location = 3) in vec2 aUV0;
layout(location = 4) in vec2 aUV1;

uniform mat4 uWorld;
uniform mat4 uView;
uniform mat4 uProjection;
uniform ivec4 uStage[MAX_STAGES];

uniform int uLighting;
uniform int uLightCount;
uniform vec4 uLightPosition[MAX_LIGHTS];
uniform vec4 uLightDirection[MAX_LIGHTS];
uniform vec4 uLightDiffuse[MAX_LIGHTS];
uniform vec4 uLightAmbient[MAX_LIGHTS];
uniform vec4 uLightAttenuation[MAX_LIGHTS];

out vec4 vColor;
out vec2 vUV[MAX_STAGES];
out float vDepth;

vec2 texgen(int mode, vec2 uv, vec3 n, vec3 eye) {
	if (mode == 1) {
		vec3 r = reflect(normalize(eye), n);
		float m = 2.0 * sqrt(r.x * r.x + r.y * r.y + (r.z + 1.0) * (r.z + 1.0));
		return vec2(r.x / m + 0.5, r.y / m + 0.5);
	}
	if (mode == 2) {
		return reflect(normalize(eye), n).xy * 0.5 + 0.5;
	}
	return uv;
}

void main() {
	vec4 world = uWorld * vec4(aPosition, 1.0);
	vec4 eye = uView * world;
	vec3 n = normalize(mat3(uView * uWorld) * aNormal);
	gl_Position = uProjection * eye;
	vDepth = -eye.z;

	vec4 color = aColor;
	if (uLighting != 0) {
		vec3 lit = vec3(0.0);
		for (int i = 0; i < MAX_LIGHTS; i++) {
			if (i >= uLightCount) {
				break;
			}
			vec3 l;
			float att = 1.0;
			if (int(uLightPosition[i].w) == 1) {
				l = normalize(-(mat3(uView) * uLightDirection[i].xyz));
			} else {
				vec3 d = (uView * vec4(uLightPosition[i].xyz, 1.0)).xyz - eye.xyz;
				float dist = length(d);
				l = d / max(dist, 1e-6);
				vec4 a = uLightAttenuation[i];
				att = 1.0 / max(a.x + a.y * dist + a.z * dist * dist, 1e-6);
				if (a.w > 0.0 && dist > a.w) {
					att = 0.0;
				}
			}
			lit += uLightAmbient[i].rgb + uLightDiffuse[i].rgb * max(dot(n, l), 0.0) * att;
		}
		color.rgb *= clamp(lit, 0.0, 1.0);
	}
	vColor = color;

	vec2 uvs[2] = vec2[2](aUV0, aUV1);
	for (int s = 0; s < MAX_STAGES; s++) {
		vUV[s] = texgen(uStage[s].w, uvs[s], n, eye.xyz);
	}
}
`

const fragmentBody = `
uniform sampler2D uTexture[MAX_STAGES];
uniform ivec4 uStage[MAX_STAGES];
uniform vec4 uConstant;
uniform float uAlphaRef;
uniform int uFogEnabled;
uniform vec4 uFog;
uniform vec4 uFogColor;

in vec4 vColor;
in vec2 vUV[MAX_STAGES];
in float vDepth;

out vec4 fragColor;

vec4 source(int src, vec4 tex, vec4 prev) {
	if (src == 0) return tex;
	if (src == 1) return prev;
	if (src == 2) return vColor;
	return uConstant;
}

vec4 combine(int op, vec4 a, vec4 b, vec4 tex) {
	if (op == 1) return a;
	if (op == 2) return a * b;
	if (op == 3) return a + b;
	if (op == 4) return a + b - 0.5;
	if (op == 5) return mix(b, a, tex.a);
	if (op == 6) return mix(b, a, vColor.a);
	if (op == 7) return vec4(vec3(4.0 * dot(a.rgb - 0.5, b.rgb - 0.5)), a.a);
	return b;
}

void main() {
	vec4 prev = vColor;
	for (int s = 0; s < MAX_STAGES; s++) {
		ivec4 st = uStage[s];
		int colorOp = st.x & 15;
		if (colorOp == 0) {
			break;
		}
		vec4 tex = s == 0 ? texture(uTexture[0], vUV[0]) : texture(uTexture[1], vUV[1]);
		vec4 c = combine(colorOp, source((st.x >> 4) & 15, tex, prev), source((st.x >> 8) & 15, tex, prev), tex);
		int alphaOp = st.y & 15;
		float a = prev.a;
		if (alphaOp != 0) {
			a = combine(alphaOp, source((st.y >> 4) & 15, tex, prev), source((st.y >> 8) & 15, tex, prev), tex).a;
		}
		prev = vec4(c.rgb * float(st.z), a);
	}
	if (uAlphaRef > 0.0 && prev.a < uAlphaRef) {
		discard;
	}
	if (uFogEnabled != 0) {
		float f;
		int mode = int(uFog.x);
		if (mode == 0) {
			f = (uFog.z - vDepth) / max(uFog.z - uFog.y, 1e-6);
		} else if (mode == 1) {
			f = exp(-uFog.w * vDepth);
		} else {
			float d = uFog.w * vDepth;
			f = exp(-d * d);
		}
		prev.rgb = mix(uFogColor.rgb, prev.rgb, clamp(f, 0.0, 1.0));
	}
	fragColor = clamp(prev, 0.0, 1.0);
}
`

// Source returns the built-in program for the dialect.
func Source(p Profile) gpucore.ShaderSource {
	defs := fmt.Sprintf("#define MAX_STAGES %d\n#define MAX_LIGHTS %d\n", MaxStages, MaxLights)
	return gpucore.ShaderSource{
		Label:    "builtin",
		Vertex:   header(p) + defs + vertexBody,
		Fragment: header(p) + defs + fragmentBody,
	}
}

// UserSource prefixes a user program's stages with the dialect header when
// they carry no #version line.
func UserSource(p Profile, src gpucore.ShaderSource) gpucore.ShaderSource {
	fix := func(s string) string {
		if s == "" || strings.HasPrefix(strings.TrimSpace(s), "#version") {
			return s
		}
		return header(p) + s
	}
	src.Vertex = fix(src.Vertex)
	src.Fragment = fix(src.Fragment)
	return src
}
