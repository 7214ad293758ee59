package survey

import "github.com/paulmach/orb"

var sagaminoPoints = []Point{
	{Name: "下溝村", Coordinates: orb.Point{139.406397, 35.531261}, Elevation: 42.1, Stage: 0, Label: "北端点"},
	{Name: "座間村", Coordinates: orb.Point{139.434264, 35.490194}, Elevation: 86.3, Stage: 0, Label: "南端点"},

	{Name: "鳶尾山", Coordinates: orb.Point{139.324847, 35.504497}, Elevation: 237.2, Stage: 1, Label: "第1段階 一等三角点"},
	{Name: "長津田村", Coordinates: orb.Point{139.483583, 35.512028}, Elevation: 98.5, Stage: 1, Label: "第1段階 一等三角点"},

	{Name: "連光寺村", Coordinates: orb.Point{139.465033, 35.630756}, Elevation: 175.4, Stage: 2, Label: "第2段階 一等三角点"},
	{Name: "浅間山", Coordinates: orb.Point{139.312342, 35.322127}, Elevation: 98.7, Stage: 2, Label: "第2段階 一等三角点"},

	{Name: "丹沢山", Coordinates: orb.Point{139.16268, 35.474293}, Elevation: 1567.1, Stage: 3, Label: "第3段階 一等三角点"},
	{Name: "鹿野山", Coordinates: orb.Point{139.955735, 35.254982}, Elevation: 352.8, Stage: 3, Label: "第3段階 一等三角点"},

	{Name: "日本経緯度原点", Coordinates: orb.Point{139.741357, 35.658099}, Elevation: 25.7, Stage: 4, Label: "第4段階 経緯度原点"},
}

// Sagamino returns the built-in catalogue of the Sagamino baseline network.
func Sagamino() *Registry {
	r, err := NewRegistry(sagaminoPoints)
	if err != nil {
		panic("survey: built-in catalogue: " + err.Error())
	}
	return r
}

var descriptions = [StageCount]string{
	"相模野基線は、日本の近代測量の出発点となった重要な基線です。基線の測量は1882年（明治15年）に行われ、その長さは約5.2kmでした。基線の測量には、ベッセル基線尺という特殊な測定器具が使用されました。",
	"基線の両端から鳶尾山と長津田村の一等三角点を測量し、最初の三角網を形成します。各点で経緯儀を使用して水平角を測定し、三角形の内角の和が180度になることを確認します。",
	"次に連光寺村と浅間山（高麗山）の一等三角点を測量し、三角網をさらに拡大します。基線の長さと測定した角度から、三角点間の距離を計算により求めます。",
	"第三増大点として丹沢山と鹿野山を追加し、三角網をさらに拡大します。各三角点での観測を繰り返し、精度を高めていきます。",
	"最後に丹沢山、鹿野山と日本経緯度原点を結ぶ三角網を形成し、日本の測地基準点を確立します。この三角網は、日本の近代測量の基礎となりました。",
}

// Description returns the narrative for a stage. Stages past the last one
// keep the final narrative.
func Description(stage int) string {
	switch {
	case stage < 0:
		return descriptions[0]
	case stage >= StageCount:
		return descriptions[StageCount-1]
	}
	return descriptions[stage]
}

// StartLabel is the caption of the control that starts the given stage.
func StartLabel(stage int) string {
	switch stage {
	case 0:
		return "基線測量開始"
	case 1:
		return "第1段階 三角測量開始"
	case 2:
		return "第2段階 三角測量開始"
	case 3:
		return "第3段階 三角測量開始"
	case 4:
		return "第4段階 三角測量開始"
	default:
		return "測量完了"
	}
}

type NoteSection struct {
	Title string
	Items []string
}

// MeasurementNotes describes the instruments and methods used in the survey.
func MeasurementNotes() []NoteSection {
	return []NoteSection{
		{
			Title: "使用された測量機器",
			Items: []string{
				"ベッセル基線尺: 基線測量に使用された高精度の測定器具",
				"レプソルド経緯儀: 水平角・鉛直角の測定に使用された精密な角度測定器",
				"水準儀: 標高差の測定に使用された機器",
			},
		},
		{
			Title: "測量方法",
			Items: []string{
				"基線測量: 温度補正を行いながら、複数回の往復測定で距離を決定",
				"角度測定: 各三角点で16方位の観測を実施し、平均値を採用",
				"三角計算: 球面三角法を用いて距離と位置を算出",
			},
		},
	}
}
