package main

import (
	"fmt"
	"io"
	"strconv"

	_ "FightSync/internal/adapter/file"
	_ "FightSync/internal/adapter/remote"

	"FightSync/internal/adapter"
	"FightSync/internal/service"
	"FightSync/internal/utils/httpclient"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func ingestCmd(a *app) *cobra.Command {
	var source, path, url string
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "从记录来源批量入库（逐条事务，单条失败不影响整批）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ingestCfg := a.cfg.Ingest
			if source != "" {
				ingestCfg.Source = source
			}
			if path != "" {
				ingestCfg.Path = path
			}
			if url != "" {
				ingestCfg.URL = url
			}

			src, err := adapter.NewSource(ingestCfg.Source, &ingestCfg, a.logger)
			if err != nil {
				return err
			}
			report, err := service.NewIngestService(a.db, a.logger).IngestSource(cmd.Context(), src)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&source, "source", "", fmt.Sprintf("记录来源 %v（默认取配置 ingest.source）", adapter.ListFactories()))
	cmd.Flags().StringVar(&path, "path", "", "file 来源的 JSON 文件路径")
	cmd.Flags().StringVar(&url, "url", "", "remote 来源的 JSON 地址")
	return cmd
}

func updateEventURLsCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "update-event-urls",
		Short: "生成赛事页面URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := service.NewDeriveService(a.db, a.cfg, a.logger).UpdateEventURLs(cmd.Context(), force)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "重新计算已有值")
	return cmd
}

func updateEventImagesCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "update-event-images",
		Short: "从对决图片中选出赛事图片",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := service.NewDeriveService(a.db, a.cfg, a.logger).UpdateEventImages(cmd.Context(), force)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "重新计算已有值")
	return cmd
}

func updateCompetitorImagesCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "update-competitor-images",
		Short: "派生选手全身图与去序号图",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := service.NewDeriveService(a.db, a.cfg, a.logger).UpdateCompetitorImages(cmd.Context(), force)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "重新计算已有值")
	return cmd
}

func standardizeFightTitlesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "standardize-fight-titles",
		Short: `对决标题统一为 "Given Family vs. Given Family"`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := service.NewDeriveService(a.db, a.cfg, a.logger).StandardizeFightTitles(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func fetchImagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "fetch-images <competitors|fights|events>",
		Short:     "下载实体图片到本地目录",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"competitors", "fighters", "fights", "events"},
		RunE: func(cmd *cobra.Command, args []string) error {
			client := httpclient.NewHTTPClient(a.cfg.Images.Timeout, a.cfg.Images.Proxy, a.logger)
			svc := service.NewImageCacheService(a.db, httpclient.NewDownloader(client), a.cfg.Images.OutputDir, a.logger)
			res, err := svc.FetchImages(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func cleanDataCmd(a *app) *cobra.Command {
	var replacement string
	cmd := &cobra.Command{
		Use:   "clean-data <kind> <column> <target>",
		Short: "对文本列做子串替换（kind: competitors|fights|events|venues）",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := service.NewDeriveService(a.db, a.cfg, a.logger).CleanColumn(cmd.Context(), args[0], args[1], args[2], replacement)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&replacement, "replacement", "", "替换为的字符串（默认删除）")
	return cmd
}

func mergeVenuesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "merge-venues <primary_id> <duplicate_id>...",
		Short: "将重复场馆合并到主场馆：先改挂赛事，提交后删除重复场馆",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			res, err := service.NewMergeService(a.db, a.logger).MergeVenues(cmd.Context(), ids[0], ids[1:])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func parseIDs(args []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(args))
	for _, s := range args {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("无效的ID: %s", s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
