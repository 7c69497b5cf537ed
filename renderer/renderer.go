package renderer

import "github.com/ByLCY/sketchdeck/layout"

// Renderer 将布局文档输出为最终文件，例如 .excalidraw 场景或 PDF 预览。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(doc *layout.Document) ([]byte, error)
}
