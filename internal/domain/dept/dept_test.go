package dept_test

import (
	"testing"

	"github.com/haneul-games/wordrush/internal/domain/dept"
	. "github.com/smartystreets/goconvey/convey"
)

func TestValidate(t *testing.T) {
	Convey("Given submitted department codes", t, func() {
		Convey("Known codes pass through lower-cased", func() {
			code, err := dept.Validate("COM")
			So(err, ShouldBeNil)
			So(code, ShouldEqual, "com")
		})

		Convey("An empty code means no affiliation", func() {
			code, err := dept.Validate("")
			So(err, ShouldBeNil)
			So(code, ShouldEqual, "")

			code, err = dept.Validate("   ")
			So(err, ShouldBeNil)
			So(code, ShouldEqual, "")
		})

		Convey("Unknown codes are rejected, never stored as bogus values", func() {
			_, err := dept.Validate("astro")
			So(err, ShouldWrap, dept.ErrInvalidDept)
		})

		Convey("The retired ce code is rejected", func() {
			_, err := dept.Validate("ce")
			So(err, ShouldWrap, dept.ErrInvalidDept)
		})
	})
}

func TestLabel(t *testing.T) {
	Convey("Given validated codes", t, func() {
		Convey("Each code maps to its display label", func() {
			So(dept.Label("ko"), ShouldEqual, "국어교육과")
			So(dept.Label("pe"), ShouldEqual, "체육교육과")
		})

		Convey("No affiliation has no label", func() {
			So(dept.Label(""), ShouldEqual, "")
		})
	})
}

func TestCodes(t *testing.T) {
	Convey("The roster lists all nine departments", t, func() {
		So(dept.Codes(), ShouldHaveLength, 9)
		for _, c := range dept.Codes() {
			So(dept.Label(c), ShouldNotBeEmpty)
		}
	})
}
