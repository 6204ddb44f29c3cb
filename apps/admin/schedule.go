package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/adrodovia/portal/core/lesson"
	"github.com/adrodovia/portal/services/export"
)

const materialUnavailable = "material ainda não disponível"

// printSchedule prints the grouped schedule of class, one table per trimester.
func (cli *commandLine) printSchedule(class, trimester string) error {
	groups, err := cli.ctrl.Schedule(context.Background(), class, trimester)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Fprintln(cli.out, "no lessons found")
		return nil
	}

	for _, grp := range groups {
		fmt.Fprintf(cli.out, "%s\n", cli.bold(fmt.Sprintf("%dº Trimestre - %s - %s", grp.Trimester, grp.Class, grp.Theme)))
		w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
		for _, item := range grp.Lessons {
			fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\n", item.LessonNumber, orDash(item.Date), item.Teacher, orDash(item.Lesson), orDash(item.Theme))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// printLessons lists the lesson materials by trimester.
func (cli *commandLine) printLessons(trimester string) error {
	lessons, err := cli.api.FetchLessons(context.Background())
	if err != nil {
		return errors.Wrap(err, "loading lessons")
	}
	grouped := lesson.GroupByTrimester(lesson.FilterByTrimester(lessons, trimester))
	if len(grouped) == 0 {
		fmt.Fprintln(cli.out, "no lessons found")
		return nil
	}

	for _, t := range grouped.Trimesters() {
		fmt.Fprintln(cli.out, cli.bold(strconv.Itoa(t)+"º Trimestre"))
		w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
		for _, l := range grouped[t] {
			link := cli.dim(materialUnavailable)
			if lesson.HasMaterial(l.DriveLink) {
				link = l.DriveLink
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", l.Title, orDash(l.Type), orDash(l.Class), link)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// exportSchedule writes the schedule of class to the spreadsheet at path.
func (cli *commandLine) exportSchedule(class, trimester, path string) error {
	groups, err := cli.ctrl.Schedule(context.Background(), class, trimester)
	if err != nil {
		return err
	}
	f, err := export.Schedule(groups)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, "saving "+path)
	}
	var rows int
	for _, grp := range groups {
		rows += len(grp.Lessons)
	}
	fmt.Fprintf(cli.out, "%d lessons written to %s\n", rows, path)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

