package entity

import "strconv"

// EntityType is an IGES entity type code. The set of legal codes is a
// closed enumeration; Valid reports membership.
type EntityType int

const (
	TypeNull                      EntityType = 0
	TypeCircularArc               EntityType = 100
	TypeCompositeCurve            EntityType = 102
	TypeConicArc                  EntityType = 104
	TypeCopiousData               EntityType = 106
	TypePlane                     EntityType = 108
	TypeLine                      EntityType = 110
	TypeParametricSplineCurve     EntityType = 112
	TypeParametricSplineSurface   EntityType = 114
	TypePoint                     EntityType = 116
	TypeRuledSurface              EntityType = 118
	TypeSurfaceOfRevolution       EntityType = 120
	TypeTabulatedCylinder         EntityType = 122
	TypeDirection                 EntityType = 123
	TypeTransformationMatrix      EntityType = 124
	TypeFlash                     EntityType = 125
	TypeRationalBSplineCurve      EntityType = 126
	TypeRationalBSplineSurface    EntityType = 128
	TypeOffsetCurve               EntityType = 130
	TypeConnectPoint              EntityType = 132
	TypeNode                      EntityType = 134
	TypeFiniteElement             EntityType = 136
	TypeNodalDisplacement         EntityType = 138
	TypeOffsetSurface             EntityType = 140
	TypeBoundary                  EntityType = 141
	TypeCurveOnParametricSurface  EntityType = 142
	TypeBoundedSurface            EntityType = 143
	TypeTrimmedSurface            EntityType = 144
	TypeNodalResults              EntityType = 146
	TypeElementResults            EntityType = 148
	TypeBlock                     EntityType = 150
	TypeRightAngularWedge         EntityType = 152
	TypeRightCircularCylinder     EntityType = 154
	TypeRightCircularCone         EntityType = 156
	TypeSphere                    EntityType = 158
	TypeTorus                     EntityType = 160
	TypeSolidOfRevolution         EntityType = 162
	TypeSolidOfLinearExtrusion    EntityType = 164
	TypeEllipsoid                 EntityType = 168
	TypeBooleanTree               EntityType = 180
	TypeSelectedComponent         EntityType = 182
	TypeSolidAssembly             EntityType = 184
	TypeManifoldSolidBRepObject   EntityType = 186
	TypePlaneSurface              EntityType = 190
	TypeRightCircularCylSurface   EntityType = 192
	TypeRightCircularConeSurface  EntityType = 194
	TypeSphericalSurface          EntityType = 196
	TypeToroidalSurface           EntityType = 198
	TypeAngularDimension          EntityType = 202
	TypeCurveDimension            EntityType = 204
	TypeDiameterDimension         EntityType = 206
	TypeFlagNote                  EntityType = 208
	TypeGeneralLabel              EntityType = 210
	TypeGeneralNote               EntityType = 212
	TypeNewGeneralNote            EntityType = 213
	TypeLeaderArrow               EntityType = 214
	TypeLinearDimension           EntityType = 216
	TypeOrdinateDimension         EntityType = 218
	TypePointDimension            EntityType = 220
	TypeRadiusDimension           EntityType = 222
	TypeGeneralSymbol             EntityType = 228
	TypeSectionedArea             EntityType = 230
	TypeAssociativityDefinition   EntityType = 302
	TypeLineFontDefinition        EntityType = 304
	TypeMacroDefinition           EntityType = 306
	TypeSubfigureDefinition       EntityType = 308
	TypeTextFontDefinition        EntityType = 310
	TypeTextDisplayTemplate       EntityType = 312
	TypeColorDefinition           EntityType = 314
	TypeUnitsData                 EntityType = 316
	TypeNetworkSubfigureDef       EntityType = 320
	TypeAttributeTableDefinition  EntityType = 322
	TypeAssociativityInstance     EntityType = 402
	TypeDrawing                   EntityType = 404
	TypeProperty                  EntityType = 406
	TypeSingularSubfigureInstance EntityType = 408
	TypeView                      EntityType = 410
	TypeRectArraySubfigure        EntityType = 412
	TypeCircArraySubfigure        EntityType = 414
	TypeExternalReference         EntityType = 416
	TypeNodalLoadConstraint       EntityType = 418
	TypeNetworkSubfigureInstance  EntityType = 420
	TypeAttributeTableInstance    EntityType = 422
	TypeSolidInstance             EntityType = 430
	TypeVertex                    EntityType = 502
	TypeEdge                      EntityType = 504
	TypeLoop                      EntityType = 508
	TypeFace                      EntityType = 510
	TypeShell                     EntityType = 514
)

var typeNames = map[EntityType]string{
	TypeNull:                      "Null",
	TypeCircularArc:               "Circular Arc",
	TypeCompositeCurve:            "Composite Curve",
	TypeConicArc:                  "Conic Arc",
	TypeCopiousData:               "Copious Data",
	TypePlane:                     "Plane",
	TypeLine:                      "Line",
	TypeParametricSplineCurve:     "Parametric Spline Curve",
	TypeParametricSplineSurface:   "Parametric Spline Surface",
	TypePoint:                     "Point",
	TypeRuledSurface:              "Ruled Surface",
	TypeSurfaceOfRevolution:       "Surface of Revolution",
	TypeTabulatedCylinder:         "Tabulated Cylinder",
	TypeDirection:                 "Direction",
	TypeTransformationMatrix:      "Transformation Matrix",
	TypeFlash:                     "Flash",
	TypeRationalBSplineCurve:      "Rational B-Spline Curve",
	TypeRationalBSplineSurface:    "Rational B-Spline Surface",
	TypeOffsetCurve:               "Offset Curve",
	TypeConnectPoint:              "Connect Point",
	TypeNode:                      "Node",
	TypeFiniteElement:             "Finite Element",
	TypeNodalDisplacement:         "Nodal Displacement and Rotation",
	TypeOffsetSurface:             "Offset Surface",
	TypeBoundary:                  "Boundary",
	TypeCurveOnParametricSurface:  "Curve on a Parametric Surface",
	TypeBoundedSurface:            "Bounded Surface",
	TypeTrimmedSurface:            "Trimmed Parametric Surface",
	TypeNodalResults:              "Nodal Results",
	TypeElementResults:            "Element Results",
	TypeBlock:                     "Block",
	TypeRightAngularWedge:         "Right Angular Wedge",
	TypeRightCircularCylinder:     "Right Circular Cylinder",
	TypeRightCircularCone:         "Right Circular Cone Frustum",
	TypeSphere:                    "Sphere",
	TypeTorus:                     "Torus",
	TypeSolidOfRevolution:         "Solid of Revolution",
	TypeSolidOfLinearExtrusion:    "Solid of Linear Extrusion",
	TypeEllipsoid:                 "Ellipsoid",
	TypeBooleanTree:               "Boolean Tree",
	TypeSelectedComponent:         "Selected Component",
	TypeSolidAssembly:             "Solid Assembly",
	TypeManifoldSolidBRepObject:   "Manifold Solid B-Rep Object",
	TypePlaneSurface:              "Plane Surface",
	TypeRightCircularCylSurface:   "Right Circular Cylindrical Surface",
	TypeRightCircularConeSurface:  "Right Circular Conical Surface",
	TypeSphericalSurface:          "Spherical Surface",
	TypeToroidalSurface:           "Toroidal Surface",
	TypeAngularDimension:          "Angular Dimension",
	TypeCurveDimension:            "Curve Dimension",
	TypeDiameterDimension:         "Diameter Dimension",
	TypeFlagNote:                  "Flag Note",
	TypeGeneralLabel:              "General Label",
	TypeGeneralNote:               "General Note",
	TypeNewGeneralNote:            "New General Note",
	TypeLeaderArrow:               "Leader (Arrow)",
	TypeLinearDimension:           "Linear Dimension",
	TypeOrdinateDimension:         "Ordinate Dimension",
	TypePointDimension:            "Point Dimension",
	TypeRadiusDimension:           "Radius Dimension",
	TypeGeneralSymbol:             "General Symbol",
	TypeSectionedArea:             "Sectioned Area",
	TypeAssociativityDefinition:   "Associativity Definition",
	TypeLineFontDefinition:        "Line Font Definition",
	TypeMacroDefinition:           "MACRO Definition",
	TypeSubfigureDefinition:       "Subfigure Definition",
	TypeTextFontDefinition:        "Text Font Definition",
	TypeTextDisplayTemplate:       "Text Display Template",
	TypeColorDefinition:           "Color Definition",
	TypeUnitsData:                 "Units Data",
	TypeNetworkSubfigureDef:       "Network Subfigure Definition",
	TypeAttributeTableDefinition:  "Attribute Table Definition",
	TypeAssociativityInstance:     "Associativity Instance",
	TypeDrawing:                   "Drawing",
	TypeProperty:                  "Property",
	TypeSingularSubfigureInstance: "Singular Subfigure Instance",
	TypeView:                      "View",
	TypeRectArraySubfigure:        "Rectangular Array Subfigure Instance",
	TypeCircArraySubfigure:        "Circular Array Subfigure Instance",
	TypeExternalReference:         "External Reference",
	TypeNodalLoadConstraint:       "Nodal Load/Constraint",
	TypeNetworkSubfigureInstance:  "Network Subfigure Instance",
	TypeAttributeTableInstance:    "Attribute Table Instance",
	TypeSolidInstance:             "Solid Instance",
	TypeVertex:                    "Vertex",
	TypeEdge:                      "Edge",
	TypeLoop:                      "Loop",
	TypeFace:                      "Face",
	TypeShell:                     "Shell",
}

// Valid reports whether t is a legal entity type code.
func (t EntityType) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

func (t EntityType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown (" + strconv.Itoa(int(t)) + ")"
}

// TypeByName returns the entity type with the given catalog name.
func TypeByName(name string) (EntityType, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}
