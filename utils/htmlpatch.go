package utils

import "strings"

// 对上传游戏的入口 index.html 做轻量文本修补，让构建产物在 iframe 里能跑起来
// 这里刻意用标记子串替换而不是HTML解析-输入是固定的构建模板，不是任意HTML
// （已知局限：上游模板变动时这里会跟着失效）

const (
	markerLink     = "link"
	markerTemplate = "TemplateData"
	markerBuildURL = "buildUrl"
	markerBuild    = "Build"
)

// iframe 尺寸同步脚本-监听画布在加载和缩放时的尺寸并postMessage给父页面
const resizeScript = `
    <script>
      function sendSizeToParent() {
        var canvas = document.querySelector("#unity-canvas");
        var width = canvas.clientWidth;
        var height = canvas.clientHeight;
        window.parent.postMessage({ width: width, height: height }, '*');
      }

      window.addEventListener('resize', sendSizeToParent);
      window.addEventListener('load', sendSizeToParent);
    </script>
    `

// PatchEntryHTML 纯函数：原文进修补后的文本出
// publicPrefix 形如 "/media/games/<游戏目录>/"，用来把zip内的相对资源路径改写成站点可达的路径
func PatchEntryHTML(content, publicPrefix string) string {
	var b strings.Builder
	isCheckBuild := false // 找到过 Build 关键字后置真-之后的 buildUrl 行不再修补，避免二次加前缀

	for _, line := range strings.SplitAfter(content, "\n") {
		if cursor := strings.Index(line, markerTemplate); strings.Contains(line, markerLink) && cursor > -1 {
			// <link> 标签里的 TemplateData 资源引用-插入公共前缀
			b.WriteString(line[:cursor] + publicPrefix + line[cursor:])
		} else if cursor := strings.Index(line, markerBuild); strings.Contains(line, markerBuildURL) && !isCheckBuild && cursor > -1 {
			// var buildUrl 赋值行-只改第一处
			isCheckBuild = true
			b.WriteString(line[:cursor] + publicPrefix + line[cursor:])
		} else {
			b.WriteString(line)
		}
	}
	patched := b.String()

	// body 与 unity-container 注入固定样式（零边距、撑满、隐藏溢出）
	patched = strings.ReplaceAll(patched,
		`<body`, `<body style="margin: 0; padding: 0; width: 100%; height: 100%; overflow: hidden;"`)
	patched = strings.ReplaceAll(patched,
		`<div id="unity-container"`, `<div id="unity-container" style="width: 100%; height: 100%; overflow: hidden;"`)

	// </body> 之前插入尺寸同步脚本
	if idx := strings.Index(patched, "</body>"); idx > -1 {
		patched = patched[:idx] + resizeScript + patched[idx:]
	}
	return patched
}
