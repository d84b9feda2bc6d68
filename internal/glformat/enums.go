package glformat

// GL enum values shared by OpenGL core, OpenGL ES and WebGL.
const (
	Texture2D            = 0x0DE1
	TextureCubeMap       = 0x8513
	TextureCubeMapPosX   = 0x8515
	Texture0             = 0x84C0
	TextureMinFilter     = 0x2801
	TextureMagFilter     = 0x2800
	TextureWrapS         = 0x2802
	TextureWrapT         = 0x2803
	TextureWrapR         = 0x8072
	TextureLODBias       = 0x8501
	TextureMaxAnisotropy = 0x84FE
	GenerateMipmap       = 0x8191

	Nearest              = 0x2600
	Linear               = 0x2601
	NearestMipmapNearest = 0x2700
	LinearMipmapNearest  = 0x2701
	NearestMipmapLinear  = 0x2702
	LinearMipmapLinear   = 0x2703

	Repeat         = 0x2901
	ClampToEdge    = 0x812F
	MirroredRepeat = 0x8370

	UnsignedByte       = 0x1401
	UnsignedShort      = 0x1403
	UnsignedInt        = 0x1405
	Float              = 0x1406
	HalfFloat          = 0x140B
	HalfFloatOES       = 0x8D61
	UnsignedShort5551  = 0x8034
	UnsignedShort565   = 0x8363
	UnsignedInt248     = 0x84FA

	DepthComponent = 0x1902
	Red            = 0x1903
	RGB            = 0x1907
	RGBA           = 0x1908
	RG             = 0x8227
	BGRA           = 0x80E1
	DepthStencil   = 0x84F9

	RGB5A1            = 0x8057
	RGB565            = 0x8D62
	RGB8              = 0x8051
	RGBA8             = 0x8058
	R8                = 0x8229
	RG8               = 0x822B
	R16F              = 0x822D
	RG16F             = 0x822F
	R32F              = 0x822E
	RG32F             = 0x8230
	RGBA16F           = 0x881A
	RGBA32F           = 0x8814
	DepthComponent16  = 0x81A5
	DepthComponent24  = 0x81A6
	DepthComponent32F = 0x8CAC
	Depth24Stencil8   = 0x88F0

	CompressedRGBAS3TCDXT1 = 0x83F1
	CompressedRGBAS3TCDXT3 = 0x83F2
	CompressedRGBAS3TCDXT5 = 0x83F3

	Framebuffer              = 0x8D40
	ColorAttachment0         = 0x8CE0
	DepthAttachment          = 0x8D00
	StencilAttachment        = 0x8D20
	DepthStencilAttachment   = 0x821A
	FramebufferComplete      = 0x8CD5
	FramebufferIncompleteAtt = 0x8CD6
	FramebufferMissingAtt    = 0x8CD7
	FramebufferIncompleteDim = 0x8CD9
	FramebufferUnsupported   = 0x8CDD
	None                     = 0

	CapBlend     = 0x0BE2
	CapDepthTest = 0x0B71
	CapCullFace  = 0x0B44
	Front        = 0x0404
	Back         = 0x0405
	FrontAndBack = 0x0408

	ColorBufferBit   = 0x4000
	DepthBufferBit   = 0x0100
	StencilBufferBit = 0x0400

	Points        = 0x0000
	Lines         = 0x0001
	LineStrip     = 0x0003
	Triangles     = 0x0004
	TriangleStrip = 0x0005

	NoError = 0
)
