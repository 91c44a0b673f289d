// Package extractparameters pulls typed, optional fields out of free text using
// ordered heuristic strategies. Extraction never fails: fields it cannot find stay nil.
package extractparameters

func EpicCreate(raw string) EpicCreateParams {
	q := NewQuery(raw)
	var p EpicCreateParams
	if v, _, ok := Resolve(q, EpicProjectKeyStrategies); ok {
		p.ProjectKey = &v
	}
	if v, _, ok := Resolve(q, EpicSummaryStrategies); ok {
		p.Summary = &v
	}
	if v, _, ok := Resolve(q, EpicDescriptionStrategies); ok {
		p.Description = &v
	}
	return p
}

func EpicGet(raw string) EpicGetParams {
	var p EpicGetParams
	if v, _, ok := Resolve(NewQuery(raw), EpicIssueKeyStrategies); ok {
		p.IssueKey = &v
	}
	return p
}

func SprintCreate(raw string) SprintCreateParams {
	q := NewQuery(raw)
	var p SprintCreateParams
	if v, _, ok := Resolve(q, SprintNameStrategies); ok {
		p.Name = &v
	}
	if v, _, ok := Resolve(q, SprintBoardIDStrategies); ok {
		p.BoardID = &v
	}
	return p
}

func SprintGet(raw string) SprintGetParams {
	var p SprintGetParams
	if v, _, ok := Resolve(NewQuery(raw), SprintIDStrategies); ok {
		p.SprintID = &v
	}
	return p
}

func BoardGet(raw string) BoardGetParams {
	var p BoardGetParams
	if v, _, ok := Resolve(NewQuery(raw), BoardIDStrategies); ok {
		p.BoardID = &v
	}
	return p
}
